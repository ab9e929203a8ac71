package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"jewel-erp/internal/apperr"
)

// Status is the settlement state of an invoice.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusPartiallyPaid Status = "PARTIALLY PAID"
	StatusPaid          Status = "PAID"
	StatusCancelled     Status = "CANCELLED"
)

var Statuses = []Status{StatusPending, StatusPartiallyPaid, StatusPaid, StatusCancelled}

// transitions lists the moves allowed out of each status. Staying in the
// same status is always allowed and is not listed.
var transitions = map[Status][]Status{
	StatusPending:       {StatusPartiallyPaid, StatusPaid, StatusCancelled},
	StatusPartiallyPaid: {StatusPaid, StatusCancelled},
	StatusPaid:          {StatusCancelled},
	StatusCancelled:     {},
}

var (
	ErrUnknownStatus     = apperr.InvalidArgument("unknown invoice status")
	ErrIllegalTransition = apperr.InvalidState("illegal invoice status transition")
	ErrStatusLocked      = apperr.InvalidState("cannot manually change status of a paid invoice, except to cancel")
	ErrDerivedStatus     = apperr.InvalidArgument("status is set only by recording payments")
)

// ParseStatus accepts any letter case and underscores in place of spaces.
func ParseStatus(s string) (Status, error) {
	norm := Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", " ")))
	if !norm.Valid() {
		return "", apperr.New(ErrUnknownStatus, "unknown invoice status: %q", s)
	}
	return norm, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string { return string(s) }

// Settled reports whether the invoice takes no further payments.
func (s Status) Settled() bool {
	return s == StatusPaid || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return s.Valid()
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeriveStatus is the status implied by the amounts. A cancelled invoice
// stays cancelled.
func DeriveStatus(current Status, due, paid decimal.Decimal) Status {
	switch {
	case current == StatusCancelled:
		return StatusCancelled
	case due.IsZero():
		return StatusPaid
	case paid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}

// Settle derives the status from the amounts and checks the move against
// the transition table.
func Settle(current Status, due, paid decimal.Decimal) (Status, error) {
	next := DeriveStatus(current, due, paid)
	if !current.CanTransitionTo(next) {
		return current, apperr.New(ErrIllegalTransition, "cannot move invoice from %s to %s", current, next)
	}
	return next, nil
}

// ManualStatusChange validates a status chosen by a user. PAID and
// PARTIALLY PAID are reachable only through payments and credits, a paid or
// partially paid invoice may only be cancelled, and nothing leaves CANCELLED.
func ManualStatusChange(current, target Status) (Status, error) {
	if !target.Valid() {
		return current, apperr.New(ErrUnknownStatus, "unknown invoice status: %q", string(target))
	}
	if current == target {
		return current, nil
	}
	if current == StatusPaid || current == StatusPartiallyPaid {
		if target != StatusCancelled {
			return current, ErrStatusLocked
		}
		return target, nil
	}
	if target == StatusPaid || target == StatusPartiallyPaid {
		return current, apperr.New(ErrDerivedStatus, "status %s is set only by recording payments", target)
	}
	if !current.CanTransitionTo(target) {
		return current, apperr.New(ErrIllegalTransition, "cannot move invoice from %s to %s", current, target)
	}
	return target, nil
}
