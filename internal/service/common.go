package service

import (
	"strings"
	"time"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/repository"
	"jewel-erp/pkg/validator"
)

const dateLayout = "2006-01-02"

// Actor identifies the authenticated user behind a mutation.
type Actor struct {
	ID    string
	Name  string
	Email string
}

func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

func (a Actor) eventUser() map[string]interface{} {
	return map[string]interface{}{"id": a.ID, "name": a.Name, "email": a.Email}
}

// EventPublisher pushes notifications to connected clients.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

func validationError(errs []*validator.ErrorResponse) error {
	return apperr.InvalidArgument("%s", validator.Describe(errs))
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	return nil
}

// parseDate reads a YYYY-MM-DD value, returning fallback's date when empty.
func parseDate(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := fallback.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.InvalidArgument("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

// lookupErr turns a missing-row error into a NotFound with the given message.
func lookupErr(err error, format string, args ...any) error {
	if repository.IsNotFound(err) {
		return apperr.NotFound(format, args...)
	}
	return err
}

func normalizeMobile(mobile string) string {
	return strings.ReplaceAll(strings.TrimSpace(mobile), " ", "")
}
