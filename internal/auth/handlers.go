package auth

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
)

// setupMutex serializes setup requests so only one first account is created.
var setupMutex sync.Mutex

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthAuditor receives the outcome of authentication attempts. It may be
// nil, in which case attempts are not recorded.
type AuthAuditor interface {
	LogAuth(userID uint, action string, ipAddr string, success bool)
}

// Controller handles the login, logout and first-run setup pages.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	auditor        AuthAuditor
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
	}
}

// SetAuditor attaches an audit logger for login, logout and setup events.
func (ac *Controller) SetAuditor(auditor AuthAuditor) {
	ac.auditor = auditor
}

func (ac *Controller) logAuth(c *gin.Context, userID uint, action string, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(userID, action, c.ClientIP(), success)
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router gin.IRoutes) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
	router.GET("/setup", ac.SetupPage)
	router.POST("/setup", ac.Setup)
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "login", gin.H{
		"Next":      sanitizeRedirectPath(c.Query("next")),
		"Error":     c.Query("error"),
		"CSRFToken": c.GetString("csrf_token"),
	})
}

// Login checks the submitted credentials and starts a session.
func (ac *Controller) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		ac.logAuth(c, 0, "login", false)
		c.Redirect(http.StatusFound, "/login?error=Invalid+username+or+password&next="+next)
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		c.String(http.StatusInternalServerError, "Failed to create session")
		return
	}

	ac.logAuth(c, user.ID, "login", true)
	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and returns to the home page.
func (ac *Controller) Logout(c *gin.Context) {
	userID := ac.sessionManager.GetUserID(c.Request)
	_ = ac.sessionManager.DestroySession(c.Request)
	if userID != 0 {
		ac.logAuth(c, userID, "logout", true)
	}
	c.Redirect(http.StatusFound, "/")
}

// SetupPage renders the first-run administrator setup form. Once a user
// exists the page redirects to login.
func (ac *Controller) SetupPage(c *gin.Context) {
	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to check users")
		return
	}
	if hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.HTML(http.StatusOK, "setup", gin.H{
		"CSRFToken": c.GetString("csrf_token"),
	})
}

// Setup creates the first administrator account.
func (ac *Controller) Setup(c *gin.Context) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to check users")
		return
	}
	if hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := ac.service.CreateUser(
		c.PostForm("username"),
		c.PostForm("email"),
		c.PostForm("password"),
		entities.UserRoleAdmin,
	)
	if err != nil {
		ac.logAuth(c, 0, "setup", false)
		c.Redirect(http.StatusFound, "/setup?error="+err.Error())
		return
	}

	ac.logAuth(c, user.ID, "setup", true)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/")
}
