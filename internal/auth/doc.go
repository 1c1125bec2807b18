// Package auth provides authentication and authorization for the catalog.
//
// Authentication is session-based: credentials are checked against the local
// user database and a server-side session (alexedwards/scs backed by SQLite)
// identifies the principal on later requests. The same session also carries
// the per-session page visit counter.
//
// Authorization is a pure gate: HasPermission maps a principal and a named
// permission to a boolean. Anonymous principals never hold a permission.
// Controllers consult the gate before any privileged read or mutation.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService := auth.NewService(db.DB, cfg.Auth)
//	sessionManager, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	middleware := auth.NewMiddleware(authService, sessionManager)
//	router.Use(sessionManager.SessionLoadSave(), middleware.Handler())
//
// Extract the principal in handlers:
//
//	user := auth.CurrentUser(c) // nil when anonymous
package auth
