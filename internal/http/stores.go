package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/catalog/internal/entities"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. The concrete implementations are the repositories under
// internal/database.

// AuthorStore provides author persistence for the API and page controllers.
type AuthorStore interface {
	Create(author *entities.Author) error
	GetByID(id uint) (*entities.Author, error)
	Update(id uint, update entities.Author) error
	Delete(id uint) error
	List(limit, offset int) ([]entities.Author, error)
	Count() (int64, error)
}

// GenreStore provides genre persistence.
type GenreStore interface {
	Create(genre *entities.Genre) error
	GetByID(id uint) (*entities.Genre, error)
	Update(id uint, name string) error
	Delete(id uint) error
	List() ([]entities.Genre, error)
	CountNameContains(word string) (int64, error)
}

// LanguageStore provides language persistence.
type LanguageStore interface {
	Create(language *entities.Language) error
	GetByID(id uint) (*entities.Language, error)
	Update(id uint, name string) error
	Delete(id uint) error
	List() ([]entities.Language, error)
}

// BookStore provides book persistence.
type BookStore interface {
	Create(book *entities.Book, genreIDs []uint) error
	GetByID(id uint) (*entities.Book, error)
	Update(id uint, update entities.Book, genreIDs []uint) error
	Delete(id uint) error
	List(limit, offset int) ([]entities.Book, error)
	Count() (int64, error)
	CountTitleContains(word string) (int64, error)
}

// InstanceStore provides book copy persistence.
type InstanceStore interface {
	Create(instance *entities.BookInstance) error
	GetByID(id uuid.UUID) (*entities.BookInstance, error)
	Update(id uuid.UUID, update entities.BookInstance) error
	Delete(id uuid.UUID) error
	Count() (int64, error)
	CountByStatus(status entities.InstanceStatus) (int64, error)
}

// LoanService is the slice of the loans service the controllers use.
type LoanService interface {
	Renew(principal *entities.User, id uuid.UUID, proposed time.Time) error
	Return(principal *entities.User, id uuid.UUID) error
	LoansFor(borrowerID uint) ([]entities.BookInstance, error)
	AllLoans(principal *entities.User) ([]entities.BookInstance, error)
}
