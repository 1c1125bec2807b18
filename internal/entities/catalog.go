package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstanceStatus tracks where a physical copy is in its lending lifecycle.
type InstanceStatus string

const (
	StatusMaintenance InstanceStatus = "maintenance"
	StatusOnLoan      InstanceStatus = "on_loan"
	StatusAvailable   InstanceStatus = "available"
	StatusReserved    InstanceStatus = "reserved"
)

// ValidStatus reports whether s is one of the known instance statuses.
func ValidStatus(s InstanceStatus) bool {
	switch s {
	case StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved:
		return true
	}
	return false
}

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"index;size:100" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	Books       []Book     `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DisplayName renders the author as "Last, First" for denormalized projections.
func (a Author) DisplayName() string {
	return a.LastName + ", " + a.FirstName
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:200" json:"name"`
	Books     []Book    `gorm:"many2many:book_genres;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Language struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Book represents a title in the catalog, not a physical copy.
type Book struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"index;size:512" json:"title"`
	Summary   string         `gorm:"type:text" json:"summary"`
	ISBN      string         `gorm:"size:20" json:"isbn"`
	AuthorID  uint           `gorm:"index" json:"author_id"`
	Author    Author         `gorm:"foreignKey:AuthorID" json:"-"`
	Genres    []Genre        `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	Instances []BookInstance `gorm:"foreignKey:BookID" json:"instances,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BookInstance is one physical lending copy of a Book.
//
// BorrowerID is meaningful only while Status is on_loan, and DueBack should
// be nil otherwise. Neither is enforced by a database constraint, so readers
// must not assume it.
type BookInstance struct {
	ID         uuid.UUID      `gorm:"type:text;primaryKey" json:"id"`
	BookID     uint           `gorm:"index" json:"book_id"`
	Book       Book           `gorm:"foreignKey:BookID" json:"-"`
	Imprint    string         `gorm:"size:256" json:"imprint"`
	DueBack    *time.Time     `json:"due_back,omitempty"`
	BorrowerID *uint          `gorm:"index" json:"borrower_id,omitempty"`
	Borrower   *User          `gorm:"foreignKey:BorrowerID" json:"-"`
	LanguageID *uint          `gorm:"index" json:"language_id,omitempty"`
	Language   *Language      `gorm:"foreignKey:LanguageID" json:"-"`
	Status     InstanceStatus `gorm:"size:20;default:'maintenance'" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a fresh UUID when none was provided.
func (b *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsOverdue reports whether the copy's due-back date has passed at the given
// time. Comparison is by calendar date: a copy due back today is not overdue.
func (b BookInstance) IsOverdue(now time.Time) bool {
	if b.DueBack == nil {
		return false
	}
	due := dateOf(*b.DueBack)
	return due.Before(dateOf(now))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Language) TableName() string {
	return "languages"
}

func (Book) TableName() string {
	return "books"
}

func (BookInstance) TableName() string {
	return "book_instances"
}
