package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/config"
	"github.com/openshelf/catalog/internal/database"
	"github.com/openshelf/catalog/internal/database/authors"
	"github.com/openshelf/catalog/internal/database/books"
	"github.com/openshelf/catalog/internal/database/genres"
	"github.com/openshelf/catalog/internal/database/instances"
	"github.com/openshelf/catalog/internal/database/languages"
	"github.com/openshelf/catalog/internal/entities"
	"github.com/openshelf/catalog/internal/loans"
)

const testPassword = "correct-horse-battery"

func setupFullRouter(t *testing.T) (*gin.Engine, *database.Database, func()) {
	t.Helper()

	db, cleanup := setupTestDB(t)

	authCfg := config.Auth{
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
	authService := auth.NewService(db.DB, authCfg)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessionManager, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	instanceRepo := instances.NewRepository(db.DB)

	router := NewRouter(RouterConfig{
		Database:       db,
		Authors:        authors.NewRepository(db.DB),
		Genres:         genres.NewRepository(db.DB),
		Languages:      languages.NewRepository(db.DB),
		Books:          books.NewRepository(db.DB),
		Instances:      instanceRepo,
		Loans:          loans.NewService(instanceRepo),
		AuthController: auth.NewController(authService, sessionManager),
		AuthMiddleware: auth.NewMiddleware(authService, sessionManager),
		SessionManager: sessionManager,
	})

	return router, db, cleanup
}

// login authenticates through POST /login and returns the session cookies.
func login(t *testing.T, router *gin.Engine, username string) []*http.Cookie {
	t.Helper()

	form := "username=" + username + "&password=" + testPassword
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func createRouterUser(t *testing.T, db *database.Database, username string, role entities.UserRole) {
	t.Helper()
	service := auth.NewService(db.DB, config.Auth{BcryptCost: bcrypt.MinCost})
	_, err := service.CreateUser(username, username+"@library.test", testPassword, role)
	require.NoError(t, err)
}

func TestRouterPing(t *testing.T) {
	router, _, cleanup := setupFullRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "pong"}`, w.Body.String())
}

func TestRouterAuthorCreateGate(t *testing.T) {
	router, db, cleanup := setupFullRouter(t)
	defer cleanup()

	createRouterUser(t, db, "member", entities.UserRoleMember)
	createRouterUser(t, db, "admin", entities.UserRoleAdmin)

	post := func(cookies []*http.Cookie) *httptest.ResponseRecorder {
		body := `{"first_name": "Terry", "last_name": "Pratchett"}`
		req := httptest.NewRequest(http.MethodPost, "/api/author/create", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := post(nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("member gets 403", func(t *testing.T) {
		w := post(login(t, router, "member"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin creates the author", func(t *testing.T) {
		w := post(login(t, router, "admin"))
		assert.Equal(t, http.StatusCreated, w.Code)

		var count int64
		require.NoError(t, db.DB.Model(&entities.Author{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestRouterMyLoansRedirectsAnonymous(t *testing.T) {
	router, _, cleanup := setupFullRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/myloans", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=/myloans", w.Header().Get("Location"))
}

func TestRouterVisitCounterPersistsInSession(t *testing.T) {
	router, _, cleanup := setupFullRouter(t)
	defer cleanup()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `"num_visits":1`)

	// Replaying the session cookie continues the same counter
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	for _, c := range first.Result().Cookies() {
		req.AddCookie(c)
	}
	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `"num_visits":2`)
}
