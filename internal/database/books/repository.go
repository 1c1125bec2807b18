// Package books provides database operations for book title records.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Create(&entities.Book{Title: "..."}, []uint{1, 2})
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new book after validating its referenced author and
// genres. Nothing is written when a reference is unknown.
func (r *Repository) Create(book *entities.Book, genreIDs []uint) error {
	genres, err := r.resolveReferences(book.AuthorID, genreIDs)
	if err != nil {
		return err
	}
	book.Genres = genres

	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// GetByID retrieves a book with its author and genres preloaded.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Genres").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %d: %w", id, catalog.ErrNotFound)
		}
		return nil, err
	}
	return &book, nil
}

// Update replaces the scalar fields and genre set of an existing book.
func (r *Repository) Update(id uint, update entities.Book, genreIDs []uint) error {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("book %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	genres, err := r.resolveReferences(update.AuthorID, genreIDs)
	if err != nil {
		return err
	}

	book.Title = update.Title
	book.Summary = update.Summary
	book.ISBN = update.ISBN
	book.AuthorID = update.AuthorID

	if err := r.db.Save(&book).Error; err != nil {
		return err
	}
	return r.db.Model(&book).Association("Genres").Replace(genres)
}

// Delete removes a book and its genre associations. It refuses while any
// physical copy of the book still exists.
func (r *Repository) Delete(id uint) error {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("book %d: %w", id, catalog.ErrNotFound)
		}
		return err
	}

	var copies int64
	err := r.db.Model(&entities.BookInstance{}).Where("book_id = ?", id).Count(&copies).Error
	if err != nil {
		return err
	}
	if copies > 0 {
		return fmt.Errorf("book %d still has %d copies: %w", id, copies, catalog.ErrConflict)
	}

	if err := r.db.Model(&book).Association("Genres").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&book).Error
}

// List returns a page of books ordered by title, with authors preloaded for
// list rendering.
func (r *Repository) List(limit, offset int) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Preload("Author").Order("title ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&books).Error
	return books, err
}

// Count returns the total number of books.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// CountTitleContains counts books whose title contains the given substring.
// SQLite's LIKE is case-insensitive for ASCII.
func (r *Repository) CountTitleContains(word string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("title LIKE ?", "%"+word+"%").Count(&count).Error
	return count, err
}

// resolveReferences checks the author exists and loads the referenced
// genres, reporting the first unknown reference as a field-level error.
func (r *Repository) resolveReferences(authorID uint, genreIDs []uint) ([]entities.Genre, error) {
	var author entities.Author
	if err := r.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.Validation("author_id", fmt.Sprintf("author %d does not exist", authorID))
		}
		return nil, err
	}

	if len(genreIDs) == 0 {
		return nil, nil
	}

	var genres []entities.Genre
	if err := r.db.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(genreIDs) {
		found := make(map[uint]bool, len(genres))
		for _, g := range genres {
			found[g.ID] = true
		}
		for _, id := range genreIDs {
			if !found[id] {
				return nil, catalog.Validation("genre_ids", fmt.Sprintf("genre %d does not exist", id))
			}
		}
	}
	return genres, nil
}
