package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/auth"
	"github.com/openshelf/catalog/internal/database"
	"github.com/openshelf/catalog/internal/demo"
)

// RouterConfig receives all controller dependencies, improving testability
// and reducing parameter count.
type RouterConfig struct {
	Database *database.Database

	Authors   AuthorStore
	Genres    GenreStore
	Languages LanguageStore
	Books     BookStore
	Instances InstanceStore
	Loans     LoanService
	Audit     AuditLog

	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool
	DemoMiddleware *demo.Middleware

	TemplatesPath string
	StaticPath    string
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers and request metrics to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(MetricsMiddleware())

	// Session runs before auth so the principal can be resolved from it
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	authMiddleware := cfg.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil, nil)
	}
	router.Use(authMiddleware.Handler())

	// Demo mode blocks writes across the whole surface
	if cfg.DemoMiddleware != nil {
		router.Use(cfg.DemoMiddleware.Handler())
	}

	// Load HTML templates
	if cfg.TemplatesPath != "" {
		tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	var visits VisitRecorder
	if cfg.SessionManager != nil {
		visits = cfg.SessionManager
	}
	home := NewHomeController(cfg.Books, cfg.Instances, cfg.Authors, cfg.Genres, visits)
	pages := NewPagesController(cfg.Books, cfg.Authors, cfg.Instances, cfg.Loans)
	authorsAPI := NewAuthorsController(cfg.Authors)
	genresAPI := NewGenresController(cfg.Genres)
	languagesAPI := NewLanguagesController(cfg.Languages)
	booksAPI := NewBooksController(cfg.Books)
	instancesAPI := NewInstancesController(cfg.Instances, cfg.Loans)
	loansAPI := NewLoansController(cfg.Loans)
	usersAPI := NewUsersController()

	// Health and metrics endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", MetricsHandler())

	// Browsable pages. Form-posting routes sit behind CSRF protection when
	// a secret is configured.
	web := router.Group("/")
	if len(cfg.CSRFSecret) > 0 {
		web.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	web.GET("/", home.Index)
	web.GET("/books", pages.BooksPage)
	web.GET("/books/:id", pages.BookPage)
	web.GET("/authors", pages.AuthorsPage)
	web.GET("/authors/:id", pages.AuthorPage)
	web.GET("/myloans", authMiddleware.RequireAuth(), pages.MyLoansPage)
	web.GET("/loans", authMiddleware.RequirePermission(auth.PermMarkReturned), pages.AllLoansPage)
	web.GET("/instances/:id/renew", authMiddleware.RequirePermission(auth.PermMarkReturned), pages.RenewPage)
	web.POST("/instances/:id/renew", authMiddleware.RequirePermission(auth.PermMarkReturned), pages.RenewSubmit)

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(web)
	}

	// JSON API. The loans service performs its own permission checks for
	// renew/return and the all-loans view; author and book mutations are
	// gated here.
	api := router.Group("/api")

	api.GET("/summary", home.Summary)
	api.GET("/me", usersAPI.Me)

	api.GET("/books", booksAPI.List)
	api.GET("/authors", authorsAPI.List)
	api.GET("/loans", loansAPI.All)
	api.GET("/loans/mine", loansAPI.Mine)

	if cfg.Audit != nil {
		auditAPI := NewAuditController(cfg.Audit)
		api.GET("/audit", authMiddleware.RequirePermission(auth.PermMarkReturned), auditAPI.List)
	}

	api.POST("/author/create", authMiddleware.RequirePermission(auth.PermManageAuthors), authorsAPI.Create)
	api.GET("/author/:id", authorsAPI.Get)
	api.PUT("/author/:id", authMiddleware.RequirePermission(auth.PermManageAuthors), authorsAPI.Update)
	api.DELETE("/author/:id", authMiddleware.RequirePermission(auth.PermManageAuthors), authorsAPI.Delete)

	api.POST("/genre/create", genresAPI.Create)
	api.GET("/genre/:id", genresAPI.Get)
	api.PUT("/genre/:id", genresAPI.Update)
	api.DELETE("/genre/:id", genresAPI.Delete)

	api.POST("/language/create", languagesAPI.Create)
	api.GET("/language/:id", languagesAPI.Get)
	api.PUT("/language/:id", languagesAPI.Update)
	api.DELETE("/language/:id", languagesAPI.Delete)

	api.POST("/book/create", authMiddleware.RequirePermission(auth.PermManageBooks), booksAPI.Create)
	api.GET("/book/:id", booksAPI.Get)
	api.PUT("/book/:id", authMiddleware.RequirePermission(auth.PermManageBooks), booksAPI.Update)
	api.DELETE("/book/:id", authMiddleware.RequirePermission(auth.PermManageBooks), booksAPI.Delete)

	api.POST("/book_instance/create", instancesAPI.Create)
	api.GET("/book_instance/:id", instancesAPI.Get)
	api.PUT("/book_instance/:id", instancesAPI.Update)
	api.DELETE("/book_instance/:id", instancesAPI.Delete)
	api.POST("/book_instance/:id/renew", instancesAPI.Renew)
	api.POST("/book_instance/:id/return", instancesAPI.Return)

	return router
}
