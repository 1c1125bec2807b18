package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/catalog/internal/audit"
	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/database"
	audit_repo "github.com/openshelf/catalog/internal/database/audit"
	"github.com/openshelf/catalog/internal/entities"
)

func setupAuditRouter(db *database.Database, principal *entities.User) (*gin.Engine, *audit.Service) {
	service := audit.NewService(audit_repo.NewRepository(db.DB))
	controller := NewAuditController(service)
	gate := auth.NewMiddleware(nil, nil)

	router := gin.New()
	router.Use(asUser(principal))
	router.GET("/api/audit", gate.RequirePermission(auth.PermMarkReturned), controller.List)
	return router, service
}

func TestAuditController_ListRequiresPermission(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("anonymous gets 401", func(t *testing.T) {
		router, _ := setupAuditRouter(db, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("member gets 403", func(t *testing.T) {
		member := createTestUser(t, db, "member", entities.UserRoleMember)
		router, _ := setupAuditRouter(db, member)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuditController_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	librarian := createTestUser(t, db, "librarian", entities.UserRoleLibrarian)
	router, service := setupAuditRouter(db, librarian)

	require.NoError(t, service.Log(&entities.AuditEvent{
		UserID:    librarian.ID,
		EventType: entities.AuditEventRenewal,
		Action:    "instance_renew",
		Status:    entities.AuditStatusSuccess,
	}))
	require.NoError(t, service.Log(&entities.AuditEvent{
		UserID:    42,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusFailed,
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data  []entities.AuditEvent `json:"data"`
		Total int64                 `json:"total"`
		Page  int                   `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Data, 2)

	t.Run("filter by user", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit?user_id=42", nil))
		require.Equal(t, http.StatusOK, w.Code)

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "login", page.Data[0].Action)
	})

	t.Run("invalid user_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit?user_id=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
