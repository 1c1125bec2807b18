package instances

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_instances_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Genre{},
		&entities.Language{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	author := &entities.Author{FirstName: "Test", LastName: "Author"}
	require.NoError(t, db.Create(author).Error)
	book := &entities.Book{Title: title, AuthorID: author.ID}
	require.NoError(t, db.Create(book).Error)
	return book
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	user := &entities.User{
		Username:     username,
		Email:        username + "@library.test",
		PasswordHash: "x",
		Role:         entities.UserRoleMember,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_CreateAssignsUUID(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "The Secret Garden")
	instance := &entities.BookInstance{
		BookID:  book.ID,
		Imprint: "Puffin Classics",
		Status:  entities.StatusAvailable,
	}
	require.NoError(t, repo.Create(instance))
	assert.NotEqual(t, uuid.Nil, instance.ID)

	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Secret Garden", got.Book.Title)
	assert.Equal(t, entities.StatusAvailable, got.Status)
}

func TestRepository_CreateValidatesReferences(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Valid Book")

	t.Run("bad status", func(t *testing.T) {
		err := repo.Create(&entities.BookInstance{BookID: book.ID, Status: "lost"})
		var verr *catalog.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})

	t.Run("unknown book", func(t *testing.T) {
		err := repo.Create(&entities.BookInstance{BookID: 999, Status: entities.StatusAvailable})
		var verr *catalog.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "book_id", verr.Field)
	})

	t.Run("unknown borrower", func(t *testing.T) {
		borrowerID := uint(999)
		err := repo.Create(&entities.BookInstance{
			BookID:     book.ID,
			Status:     entities.StatusOnLoan,
			BorrowerID: &borrowerID,
		})
		var verr *catalog.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "borrower_id", verr.Field)
	})

	t.Run("unknown language", func(t *testing.T) {
		languageID := uint(999)
		err := repo.Create(&entities.BookInstance{
			BookID:     book.ID,
			Status:     entities.StatusAvailable,
			LanguageID: &languageID,
		})
		var verr *catalog.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "language_id", verr.Field)
	})
}

func TestRepository_SetDueBack(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Renewable")
	user := createTestUser(t, db, "reader")
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	instance := &entities.BookInstance{
		BookID:     book.ID,
		Status:     entities.StatusOnLoan,
		BorrowerID: &user.ID,
		DueBack:    &due,
	}
	require.NoError(t, repo.Create(instance))

	newDue := due.AddDate(0, 0, 21)
	require.NoError(t, repo.SetDueBack(instance.ID, newDue))

	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueBack)
	assert.Equal(t, newDue.Day(), got.DueBack.Day())
	// Renewal does not touch status or borrower
	assert.Equal(t, entities.StatusOnLoan, got.Status)
	require.NotNil(t, got.BorrowerID)

	assert.ErrorIs(t, repo.SetDueBack(uuid.New(), newDue), catalog.ErrNotFound)
}

// Competing renewals of the same copy resolve last-write-wins under the
// store's default isolation; there is no optimistic locking on due_back.
func TestRepository_SetDueBackLastWriteWins(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Contended")
	user := createTestUser(t, db, "racer")
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	instance := &entities.BookInstance{
		BookID:     book.ID,
		Status:     entities.StatusOnLoan,
		BorrowerID: &user.ID,
		DueBack:    &due,
	}
	require.NoError(t, repo.Create(instance))

	first := due.AddDate(0, 0, 14)
	second := due.AddDate(0, 0, 21)
	require.NoError(t, repo.SetDueBack(instance.ID, first))
	require.NoError(t, repo.SetDueBack(instance.ID, second))

	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueBack)
	assert.Equal(t, second.Day(), got.DueBack.Day())
}

func TestRepository_MarkReturned(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Returnable")
	user := createTestUser(t, db, "borrower")
	due := time.Now().AddDate(0, 0, 7)
	instance := &entities.BookInstance{
		BookID:     book.ID,
		Status:     entities.StatusOnLoan,
		BorrowerID: &user.ID,
		DueBack:    &due,
	}
	require.NoError(t, repo.Create(instance))

	require.NoError(t, repo.MarkReturned(instance.ID))

	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAvailable, got.Status)
	assert.Nil(t, got.BorrowerID)
	assert.Nil(t, got.DueBack)

	assert.ErrorIs(t, repo.MarkReturned(uuid.New()), catalog.ErrNotFound)
}

func TestRepository_LoansForBorrowerOrdering(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Popular")
	reader := createTestUser(t, db, "reader")
	other := createTestUser(t, db, "other")

	later := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	mkLoan := func(borrowerID uint, due *time.Time) *entities.BookInstance {
		instance := &entities.BookInstance{
			BookID:     book.ID,
			Status:     entities.StatusOnLoan,
			BorrowerID: &borrowerID,
			DueBack:    due,
		}
		require.NoError(t, repo.Create(instance))
		return instance
	}

	mkLoan(reader.ID, &later)
	mkLoan(reader.ID, &sooner)
	mkLoan(reader.ID, nil)
	mkLoan(other.ID, &sooner)

	// Available copies are not loans
	available := &entities.BookInstance{BookID: book.ID, Status: entities.StatusAvailable}
	require.NoError(t, repo.Create(available))

	loans, err := repo.LoansForBorrower(reader.ID)
	require.NoError(t, err)
	require.Len(t, loans, 3)
	// A loan without a due date sorts before any dated loan
	assert.Nil(t, loans[0].DueBack)
	assert.Equal(t, sooner.Day(), loans[1].DueBack.Day())
	assert.Equal(t, later.Day(), loans[2].DueBack.Day())
	assert.Equal(t, "Popular", loans[1].Book.Title)

	all, err := repo.AllLoans()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRepository_CountByStatus(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Counted")
	for _, status := range []entities.InstanceStatus{
		entities.StatusAvailable,
		entities.StatusAvailable,
		entities.StatusOnLoan,
		entities.StatusMaintenance,
	} {
		require.NoError(t, repo.Create(&entities.BookInstance{BookID: book.ID, Status: status}))
	}

	total, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	available, err := repo.CountByStatus(entities.StatusAvailable)
	require.NoError(t, err)
	assert.EqualValues(t, 2, available)
}
