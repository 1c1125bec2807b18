package genres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/catalog/internal/catalog"
	"github.com/openshelf/catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_genres_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
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

func TestRepository_CRUD(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.Create(genre))
	require.NotZero(t, genre.ID)

	got, err := repo.GetByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)

	require.NoError(t, repo.Update(genre.ID, "High Fantasy"))
	got, err = repo.GetByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "High Fantasy", got.Name)

	require.NoError(t, repo.Delete(genre.ID))
	_, err = repo.GetByID(genre.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRepository_DeleteClearsBookAssociations(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	genre := &entities.Genre{Name: "Poetry"}
	require.NoError(t, repo.Create(genre))

	author := &entities.Author{FirstName: "Emily", LastName: "Dickinson"}
	require.NoError(t, db.Create(author).Error)

	book := &entities.Book{
		Title:    "Collected Poems",
		AuthorID: author.ID,
		Genres:   []entities.Genre{*genre},
	}
	require.NoError(t, db.Create(book).Error)

	// Unlike authors, genres can be deleted while books reference them
	require.NoError(t, repo.Delete(genre.ID))

	var links int64
	require.NoError(t, db.Table("book_genres").Count(&links).Error)
	assert.Zero(t, links)

	var remaining entities.Book
	require.NoError(t, db.First(&remaining, book.ID).Error)
}

func TestRepository_CountNameContains(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"Fiction", "Science Fiction", "Non-Fiction", "Poetry"} {
		require.NoError(t, repo.Create(&entities.Genre{Name: name}))
	}

	count, err := repo.CountNameContains("fiction")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	count, err = repo.CountNameContains("western")
	require.NoError(t, err)
	assert.Zero(t, count)
}
