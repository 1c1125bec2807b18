// Package authors provides database operations for author records.
package authors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new author and fills in its generated ID.
func (r *Repository) Create(author *entities.Author) error {
	if err := r.db.Create(author).Error; err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// GetByID retrieves an author together with their books.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Preload("Books").First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("author %d: %w", id, catalog.ErrNotFound)
		}
		return nil, err
	}
	return &author, nil
}

// Update replaces the scalar fields of an existing author.
func (r *Repository) Update(id uint, update entities.Author) error {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("author %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	author.FirstName = update.FirstName
	author.LastName = update.LastName
	author.DateOfBirth = update.DateOfBirth
	author.DateOfDeath = update.DateOfDeath

	return r.db.Save(&author).Error
}

// Delete removes an author. It refuses while any book still references the
// author, so the caller gets a structured conflict instead of a dangling FK.
func (r *Repository) Delete(id uint) error {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("author %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	var books int64
	if err := r.db.Model(&entities.Book{}).Where("author_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("author %d still has %d books: %w", id, books, catalog.ErrConflict)
	}

	return r.db.Delete(&author).Error
}

// List returns a page of authors ordered by (last name, first name).
func (r *Repository) List(limit, offset int) ([]entities.Author, error) {
	var authors []entities.Author
	query := r.db.Order("last_name ASC, first_name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&authors).Error
	return authors, err
}

// Count returns the total number of authors.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Count(&count).Error
	return count, err
}
