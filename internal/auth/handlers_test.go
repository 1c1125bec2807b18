package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/catalog/internal/config"
	"github.com/openshelf/catalog/internal/entities"
)

type authRecord struct {
	userID  uint
	action  string
	success bool
}

// recordingAuditor captures auth events for assertions.
type recordingAuditor struct {
	mu      sync.Mutex
	records []authRecord
}

func (ra *recordingAuditor) LogAuth(userID uint, action string, ipAddr string, success bool) {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.records = append(ra.records, authRecord{userID: userID, action: action, success: success})
}

func (ra *recordingAuditor) all() []authRecord {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	return append([]authRecord(nil), ra.records...)
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *Service, *recordingAuditor, func()) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_auth_handlers_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))

	cfg := config.Auth{BcryptCost: bcrypt.MinCost, SessionLifetime: time.Hour}
	service := NewService(db, cfg)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sessionManager, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	auditor := &recordingAuditor{}
	controller := NewController(service, sessionManager)
	controller.SetAuditor(auditor)

	router := gin.New()
	router.Use(sessionManager.SessionLoadSave())
	controller.RegisterRoutes(router)

	cleanup := func() {
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return router, service, auditor, cleanup
}

func postLogin(t *testing.T, router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := "username=" + username + "&password=" + password
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestControllerLoginRecordsAuthEvents(t *testing.T) {
	router, service, auditor, cleanup := setupAuthRouter(t)
	defer cleanup()

	user, err := service.CreateUser("librarian", "lib@library.test", "super-secret-password", entities.UserRoleLibrarian)
	require.NoError(t, err)

	w := postLogin(t, router, "librarian", "wrong-password-entirely")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=")

	w = postLogin(t, router, "librarian", "super-secret-password")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	records := auditor.all()
	require.Len(t, records, 2)
	assert.Equal(t, authRecord{userID: 0, action: "login", success: false}, records[0])
	assert.Equal(t, authRecord{userID: user.ID, action: "login", success: true}, records[1])
}

func TestControllerLogoutRecordsAuthEvent(t *testing.T) {
	router, service, auditor, cleanup := setupAuthRouter(t)
	defer cleanup()

	user, err := service.CreateUser("reader", "reader@library.test", "super-secret-password", entities.UserRoleMember)
	require.NoError(t, err)

	w := postLogin(t, router, "reader", "super-secret-password")
	require.Equal(t, http.StatusFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	require.Equal(t, http.StatusFound, out.Code)

	records := auditor.all()
	require.Len(t, records, 2)
	assert.Equal(t, authRecord{userID: user.ID, action: "logout", success: true}, records[1])

	// An anonymous logout is not an auth event
	anon := httptest.NewRecorder()
	router.ServeHTTP(anon, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Len(t, auditor.all(), 2)
}

func TestControllerSetupRecordsAuthEvent(t *testing.T) {
	router, _, auditor, cleanup := setupAuthRouter(t)
	defer cleanup()

	form := "username=admin&email=admin@library.test&password=super-secret-password"
	req := httptest.NewRequest(http.MethodPost, "/setup", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	records := auditor.all()
	require.Len(t, records, 1)
	assert.Equal(t, "setup", records[0].action)
	assert.True(t, records[0].success)
	assert.NotZero(t, records[0].userID)
}
