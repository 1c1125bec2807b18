package http

import (
	"time"

	"github.com/openshelf/catalog/internal/entities"
)

// dateLayout is the wire format for calendar dates in API payloads.
const dateLayout = "2006-01-02"

// AuthorOut is the API projection of an author.
type AuthorOut struct {
	ID          uint    `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	DateOfDeath *string `json:"date_of_death"`
}

// GenreOut is the API projection of a genre.
type GenreOut struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// LanguageOut is the API projection of a language.
type LanguageOut struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BookOut is the API projection of a book. Author and genres are
// denormalized into display names rather than ids.
type BookOut struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	ISBN    string   `json:"isbn"`
	Author  string   `json:"author"`
	Genres  []string `json:"genres"`
}

// InstanceOut is the API projection of a physical copy. IsOverdue is
// derived at response time, never stored.
type InstanceOut struct {
	ID         string  `json:"id"`
	BookID     uint    `json:"book_id"`
	BookTitle  string  `json:"book_title,omitempty"`
	Imprint    string  `json:"imprint"`
	DueBack    *string `json:"due_back"`
	BorrowerID *uint   `json:"borrower_id,omitempty"`
	LanguageID *uint   `json:"language_id,omitempty"`
	Status     string  `json:"status"`
	IsOverdue  bool    `json:"is_overdue"`
}

// UserOut is the API projection of the authenticated user.
type UserOut struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func projectAuthor(author *entities.Author) AuthorOut {
	return AuthorOut{
		ID:          author.ID,
		FirstName:   author.FirstName,
		LastName:    author.LastName,
		DateOfBirth: formatDate(author.DateOfBirth),
		DateOfDeath: formatDate(author.DateOfDeath),
	}
}

func projectBook(book *entities.Book) BookOut {
	genres := make([]string, 0, len(book.Genres))
	for _, genre := range book.Genres {
		genres = append(genres, genre.Name)
	}
	return BookOut{
		ID:      book.ID,
		Title:   book.Title,
		Summary: book.Summary,
		ISBN:    book.ISBN,
		Author:  book.Author.DisplayName(),
		Genres:  genres,
	}
}

func projectInstance(instance *entities.BookInstance, now time.Time) InstanceOut {
	return InstanceOut{
		ID:         instance.ID.String(),
		BookID:     instance.BookID,
		BookTitle:  instance.Book.Title,
		Imprint:    instance.Imprint,
		DueBack:    formatDate(instance.DueBack),
		BorrowerID: instance.BorrowerID,
		LanguageID: instance.LanguageID,
		Status:     string(instance.Status),
		IsOverdue:  instance.IsOverdue(now),
	}
}

func projectUser(user *entities.User) UserOut {
	return UserOut{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDate parses an optional "YYYY-MM-DD" payload field. The bool result
// is false when the value is present but malformed.
func parseDate(value *string) (*time.Time, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, false
	}
	return &t, true
}
