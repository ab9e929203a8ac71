package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledger struct {
	mu      sync.Mutex
	numbers []string
}

func (l *ledger) LatestInvoiceNumber(context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.numbers) == 0 {
		return "", nil
	}
	return l.numbers[len(l.numbers)-1], nil
}

func (l *ledger) persist(_ context.Context, number string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.numbers = append(l.numbers, number)
	return nil
}

func fixedNow(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.March, 3, 10, 0, 0, 0, time.UTC) }
}

func TestNextInvoiceNumber(t *testing.T) {
	assert.Equal(t, "RE-2026-000001", NextInvoiceNumber("RE", "", 2026))
	assert.Equal(t, "RE-2026-000013", NextInvoiceNumber("RE", "RE-2026-000012", 2026))
	assert.Equal(t, "RE-2026-000001", NextInvoiceNumber("RE", "RE-2025-000981", 2026))
	assert.Equal(t, "RE-2026-000001", NextInvoiceNumber("RE", "garbage", 2026))
	assert.Equal(t, "RE-2026-1000000", NextInvoiceNumber("RE", "RE-2026-999999", 2026))
	assert.Equal(t, "INV-2026-000002", NextInvoiceNumber("INV", "INV-2026-000001", 2026))
}

func TestSequencerPeekDoesNotConsume(t *testing.T) {
	l := &ledger{numbers: []string{"RE-2026-000004"}}
	s := NewSequencer("", fixedNow(2026))

	peeked, err := s.Peek(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, "RE-2026-000005", peeked)

	issued, err := s.Issue(context.Background(), l, l.persist)
	require.NoError(t, err)
	assert.Equal(t, peeked, issued)
}

func TestSequencerIssueFailedPersistReusesNumber(t *testing.T) {
	l := &ledger{}
	s := NewSequencer("RE", fixedNow(2026))

	_, err := s.Issue(context.Background(), l, func(context.Context, string) error { return errors.New("rollback") })
	require.Error(t, err)

	n, err := s.Issue(context.Background(), l, l.persist)
	require.NoError(t, err)
	assert.Equal(t, "RE-2026-000001", n)
}

func TestSequencerConcurrentIssueIsGapless(t *testing.T) {
	l := &ledger{numbers: []string{"RE-2026-000007"}}
	s := NewSequencer("RE", fixedNow(2026))

	const workers = 50
	var wg sync.WaitGroup
	issued := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.Issue(context.Background(), l, l.persist)
			assert.NoError(t, err)
			issued <- n
		}()
	}
	wg.Wait()
	close(issued)

	var seqs []int
	seen := map[string]bool{}
	for n := range issued {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
		seq, ok := ParseInvoiceSequence("RE", n, 2026)
		require.True(t, ok)
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	require.Len(t, seqs, workers)
	for i, seq := range seqs {
		assert.Equal(t, 8+i, seq)
	}
}
