// Package genres provides database operations for genre records.
package genres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(genre *entities.Genre) error {
	if err := r.db.Create(genre).Error; err != nil {
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(id uint) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.First(&genre, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("genre %d: %w", id, catalog.ErrNotFound)
		}
		return nil, err
	}
	return &genre, nil
}

func (r *Repository) Update(id uint, name string) error {
	var genre entities.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("genre %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}
	genre.Name = name
	return r.db.Save(&genre).Error
}

// Delete removes a genre and its book associations.
func (r *Repository) Delete(id uint) error {
	var genre entities.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("genre %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}
	if err := r.db.Model(&genre).Association("Books").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&genre).Error
}

func (r *Repository) List() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// CountNameContains counts genres whose name contains the given substring.
// SQLite's LIKE is case-insensitive for ASCII, which is what we want here.
func (r *Repository) CountNameContains(word string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Genre{}).
		Where("name LIKE ?", "%"+word+"%").Count(&count).Error
	return count, err
}
