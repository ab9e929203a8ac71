package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultInvoicePrefix starts every invoice number, as in RE-2026-000042.
const DefaultInvoicePrefix = "RE"

// LatestNumberFinder returns the invoice number of the most recently created
// invoice, or "" when none exist.
type LatestNumberFinder interface {
	LatestInvoiceNumber(ctx context.Context) (string, error)
}

// Sequencer issues yearly sequential invoice numbers. Issue keeps its lock
// held while the caller persists the invoice, so two creations in the same
// process can never read the same latest number.
type Sequencer struct {
	mu     sync.Mutex
	prefix string
	now    func() time.Time
}

func NewSequencer(prefix string, now func() time.Time) *Sequencer {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	if now == nil {
		now = time.Now
	}
	return &Sequencer{prefix: prefix, now: now}
}

// Peek returns the number the next Issue would hand out.
func (s *Sequencer) Peek(ctx context.Context, src LatestNumberFinder) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next(ctx, src)
}

// Issue computes the next number and calls persist with it while holding the
// lock. The number is returned only when persist succeeds.
func (s *Sequencer) Issue(ctx context.Context, src LatestNumberFinder, persist func(ctx context.Context, number string) error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	number, err := s.next(ctx, src)
	if err != nil {
		return "", err
	}
	if err := persist(ctx, number); err != nil {
		return "", err
	}
	return number, nil
}

func (s *Sequencer) next(ctx context.Context, src LatestNumberFinder) (string, error) {
	latest, err := src.LatestInvoiceNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("read latest invoice number: %w", err)
	}
	return NextInvoiceNumber(s.prefix, latest, s.now().Year()), nil
}

// NextInvoiceNumber continues the sequence of latest when it belongs to year
// and restarts at 1 otherwise.
func NextInvoiceNumber(prefix, latest string, year int) string {
	seq := 1
	if n, ok := ParseInvoiceSequence(prefix, latest, year); ok {
		seq = n + 1
	}
	return FormatInvoiceNumber(prefix, year, seq)
}

func FormatInvoiceNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

// ParseInvoiceSequence extracts the sequence from a number of the given year.
func ParseInvoiceSequence(prefix, number string, year int) (int, bool) {
	rest, ok := strings.CutPrefix(number, fmt.Sprintf("%s-%d-", prefix, year))
	if !ok || rest == "" {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
