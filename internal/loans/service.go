// Package loans implements the librarian loan workflows: the per-user and
// catalog-wide loan views, renewals and returns.
package loans

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

const (
	// DefaultRenewalWeeks is how far ahead the renewal form is prefilled.
	DefaultRenewalWeeks = 3

	// MaxRenewalWeeks bounds how far ahead a renewal may be set.
	MaxRenewalWeeks = 4
)

// InstanceStore is the slice of the instances repository the loan workflows
// need.
type InstanceStore interface {
	GetByID(id uuid.UUID) (*entities.BookInstance, error)
	SetDueBack(id uuid.UUID, dueBack time.Time) error
	MarkReturned(id uuid.UUID) error
	LoansForBorrower(borrowerID uint) ([]entities.BookInstance, error)
	AllLoans() ([]entities.BookInstance, error)
}

// AuditLogger receives the outcome of librarian loan actions. It may be
// nil, in which case actions are not recorded.
type AuditLogger interface {
	LogRenewal(userID uint, instanceID uuid.UUID, dueBack time.Time, err error)
	LogReturn(userID uint, instanceID uuid.UUID, err error)
}

// Service coordinates loan reads and the renewal state transition.
type Service struct {
	store   InstanceStore
	auditor AuditLogger
}

// NewService creates a new loans service.
func NewService(store InstanceStore) *Service {
	return &Service{store: store}
}

// SetAuditor attaches an audit logger for renewals and returns.
func (s *Service) SetAuditor(auditor AuditLogger) {
	s.auditor = auditor
}

// DefaultRenewalDate returns the date a renewal form is prefilled with:
// three weeks from today.
func DefaultRenewalDate(now time.Time) time.Time {
	return dateOf(now).AddDate(0, 0, DefaultRenewalWeeks*7)
}

// ValidateRenewalDate checks the proposed due-back date against the renewal
// window: today up to and including four weeks from today. Comparison is by
// calendar date, so any time on a boundary day is accepted.
func ValidateRenewalDate(proposed, now time.Time) error {
	today := dateOf(now)
	date := dateOf(proposed)

	if date.Before(today) {
		return catalog.Validation("due_back", "renewal date is in the past")
	}
	if date.After(today.AddDate(0, 0, MaxRenewalWeeks*7)) {
		return catalog.Validation("due_back", "renewal date is more than 4 weeks ahead")
	}
	return nil
}

// Renew sets a new due-back date on a copy. The principal must hold the
// mark-returned permission; the permission check runs before the lookup so
// a forbidden response never reveals whether the copy exists. The copy's
// status is left unchanged.
func (s *Service) Renew(principal *entities.User, id uuid.UUID, proposed time.Time) error {
	if !auth.HasPermission(principal, auth.PermMarkReturned) {
		return catalog.ErrForbidden
	}

	if _, err := s.store.GetByID(id); err != nil {
		return err
	}

	if err := ValidateRenewalDate(proposed, time.Now()); err != nil {
		return err
	}

	err := s.store.SetDueBack(id, dateOf(proposed))
	if s.auditor != nil {
		s.auditor.LogRenewal(principal.ID, id, dateOf(proposed), err)
	}
	return err
}

// Return marks a copy as returned: borrower and due-back are cleared and
// the copy becomes available. Requires the mark-returned permission.
func (s *Service) Return(principal *entities.User, id uuid.UUID) error {
	if !auth.HasPermission(principal, auth.PermMarkReturned) {
		return catalog.ErrForbidden
	}
	err := s.store.MarkReturned(id)
	if s.auditor != nil {
		s.auditor.LogReturn(principal.ID, id, err)
	}
	return err
}

// LoansFor lists the copies currently on loan to the given borrower,
// soonest due first.
func (s *Service) LoansFor(borrowerID uint) ([]entities.BookInstance, error) {
	return s.store.LoansForBorrower(borrowerID)
}

// AllLoans lists every copy on loan across all borrowers. Requires the
// mark-returned permission; nothing is read for unauthorized principals.
func (s *Service) AllLoans(principal *entities.User) ([]entities.BookInstance, error) {
	if !auth.HasPermission(principal, auth.PermMarkReturned) {
		return nil, catalog.ErrForbidden
	}
	return s.store.AllLoans()
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
