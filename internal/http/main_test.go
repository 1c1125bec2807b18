package http

import (
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/database"
	"github.com/openshelf/catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

// asUser injects a principal into the context the way the session
// middleware would.
func asUser(user *entities.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(auth.ContextKeyUser, user)
		}
		c.Next()
	}
}

func createTestUser(t *testing.T, db *database.Database, username string, role entities.UserRole) *entities.User {
	t.Helper()
	user := &entities.User{
		Username:     username,
		Email:        username + "@library.test",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createTestAuthor(t *testing.T, db *database.Database, first, last string) *entities.Author {
	t.Helper()
	author := &entities.Author{FirstName: first, LastName: last}
	require.NoError(t, db.DB.Create(author).Error)
	return author
}

func createTestBook(t *testing.T, db *database.Database, title string, authorID uint) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title, AuthorID: authorID}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}
