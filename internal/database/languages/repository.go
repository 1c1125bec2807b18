// Package languages provides database operations for language records.
package languages

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

// Repository handles all language database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new languages repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new language. Language names are unique.
func (r *Repository) Create(language *entities.Language) error {
	var existing entities.Language
	err := r.db.Where("name = ?", language.Name).First(&existing).Error
	if err == nil {
		return catalog.Validation("name", "language already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := r.db.Create(language).Error; err != nil {
		return fmt.Errorf("failed to create language: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(id uint) (*entities.Language, error) {
	var language entities.Language
	err := r.db.First(&language, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("language %d: %w", id, catalog.ErrNotFound)
		}
		return nil, err
	}
	return &language, nil
}

// Update renames a language. The uniqueness check excludes the row itself
// so renaming a language to its current name is a no-op, not a conflict.
func (r *Repository) Update(id uint, name string) error {
	var language entities.Language
	if err := r.db.First(&language, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("language %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	var existing entities.Language
	err := r.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error
	if err == nil {
		return catalog.Validation("name", "language already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	language.Name = name
	return r.db.Save(&language).Error
}

// Delete removes a language. Restrict-on-delete: it is refused while any
// book instance still references the language.
func (r *Repository) Delete(id uint) error {
	var language entities.Language
	if err := r.db.First(&language, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("language %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	var references int64
	err := r.db.Model(&entities.BookInstance{}).
		Where("language_id = ?", id).Count(&references).Error
	if err != nil {
		return err
	}
	if references > 0 {
		return fmt.Errorf("language %d referenced by %d instances: %w", id, references, catalog.ErrConflict)
	}

	return r.db.Delete(&language).Error
}

func (r *Repository) List() ([]entities.Language, error) {
	var languages []entities.Language
	err := r.db.Order("name ASC").Find(&languages).Error
	return languages, err
}
