// Package instances provides database operations for physical book copies.
package instances

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new copy after validating its referenced book, borrower
// and language. Nothing is written when a reference is unknown.
func (r *Repository) Create(instance *entities.BookInstance) error {
	if err := r.validateReferences(instance); err != nil {
		return err
	}
	if err := r.db.Create(instance).Error; err != nil {
		return fmt.Errorf("failed to create book instance: %w", err)
	}
	return nil
}

// GetByID retrieves a copy with its book, borrower and language preloaded.
func (r *Repository) GetByID(id uuid.UUID) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.Preload("Book").Preload("Book.Author").
		Preload("Borrower").Preload("Language").
		First(&instance, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book instance %s: %w", id, catalog.ErrNotFound)
		}
		return nil, err
	}
	return &instance, nil
}

// Update replaces the fields of an existing copy.
func (r *Repository) Update(id uuid.UUID, update entities.BookInstance) error {
	var instance entities.BookInstance
	if err := r.db.First(&instance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("book instance %s: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	if err := r.validateReferences(&update); err != nil {
		return err
	}

	instance.BookID = update.BookID
	instance.Imprint = update.Imprint
	instance.DueBack = update.DueBack
	instance.BorrowerID = update.BorrowerID
	instance.LanguageID = update.LanguageID
	instance.Status = update.Status

	return r.db.Save(&instance).Error
}

// Delete removes a copy.
func (r *Repository) Delete(id uuid.UUID) error {
	var instance entities.BookInstance
	if err := r.db.First(&instance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("book instance %s: %w", id, catalog.ErrNotFound)
		}
		return err
	}
	return r.db.Delete(&instance).Error
}

// SetDueBack persists a new due-back date without touching any other field.
// Used by the renewal workflow; the status is left unchanged.
func (r *Repository) SetDueBack(id uuid.UUID, dueBack time.Time) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).Update("due_back", dueBack)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book instance %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// MarkReturned clears the borrower and due-back date and makes the copy
// available again.
func (r *Repository) MarkReturned(id uuid.UUID) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).Updates(map[string]any{
		"status":      entities.StatusAvailable,
		"borrower_id": nil,
		"due_back":    nil,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book instance %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// LoansForBorrower lists copies on loan to one user, soonest due first.
// Copies without a due-back date sort first (SQLite puts NULL before any
// value in ascending order).
func (r *Repository) LoansForBorrower(borrowerID uint) ([]entities.BookInstance, error) {
	var loans []entities.BookInstance
	err := r.db.Preload("Book").Preload("Book.Author").
		Where("borrower_id = ? AND status = ?", borrowerID, entities.StatusOnLoan).
		Order("due_back ASC").Find(&loans).Error
	return loans, err
}

// AllLoans lists copies on loan across all borrowers, soonest due first.
func (r *Repository) AllLoans() ([]entities.BookInstance, error) {
	var loans []entities.BookInstance
	err := r.db.Preload("Book").Preload("Book.Author").Preload("Borrower").
		Where("status = ?", entities.StatusOnLoan).
		Order("due_back ASC").Find(&loans).Error
	return loans, err
}

// Count returns the total number of copies.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of copies in the given status.
func (r *Repository) CountByStatus(status entities.InstanceStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *Repository) validateReferences(instance *entities.BookInstance) error {
	if !entities.ValidStatus(instance.Status) {
		return catalog.Validation("status", fmt.Sprintf("unknown status %q", instance.Status))
	}

	var book entities.Book
	if err := r.db.First(&book, instance.BookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Validation("book_id", fmt.Sprintf("book %d does not exist", instance.BookID))
		}
		return err
	}

	if instance.BorrowerID != nil {
		var borrower entities.User
		if err := r.db.First(&borrower, *instance.BorrowerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.Validation("borrower_id", fmt.Sprintf("user %d does not exist", *instance.BorrowerID))
			}
			return err
		}
	}

	if instance.LanguageID != nil {
		var language entities.Language
		if err := r.db.First(&language, *instance.LanguageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.Validation("language_id", fmt.Sprintf("language %d does not exist", *instance.LanguageID))
			}
			return err
		}
	}

	return nil
}
