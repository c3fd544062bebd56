package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/codedocs/snippets-api/internal/api/handler"
	"github.com/codedocs/snippets-api/internal/api/middleware"
	"github.com/codedocs/snippets-api/internal/core/service"
	"github.com/codedocs/snippets-api/internal/infrastructure/config"
	mongodb "github.com/codedocs/snippets-api/internal/infrastructure/db/mongo"
	redisdb "github.com/codedocs/snippets-api/internal/infrastructure/db/redis"
	"github.com/codedocs/snippets-api/internal/realtime"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The realtime hub is constructed by the caller because its lifecycle
// (Run/Stop) belongs to main, not to the router.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, hub *realtime.Hub, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("codedocs"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	blacklistRepo := mongodb.NewBlacklistRepository(db)
	contentRepo := mongodb.NewContentRepository(db)
	presenceStore := redisdb.NewPresenceStore(rdb)
	broadcaster := redisdb.NewPresenceBroadcaster(rdb)

	tokenService := service.NewTokenService(
		userRepo, blacklistRepo,
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, tokenService, presenceStore, broadcaster, log)
	presenceService := service.NewPresenceService(userRepo, presenceStore)
	contentService := service.NewContentService(contentRepo)

	cookies := handler.CookieConfig{Secure: cfg.IsProduction()}
	authHandler := handler.NewAuthHandler(authService, tokenService, cookies)
	contentHandler := handler.NewContentHandler(contentService)
	wsHandler := realtime.NewHandler(hub, tokenService, presenceService, handler.AccessTokenCookie, log)

	authRequired := middleware.Auth(tokenService, handler.AccessTokenCookie)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.GET("/user", authHandler.CurrentUser, authRequired)
	auth.GET("/users", authHandler.ListUsers, authRequired, adminOnly)
	auth.DELETE("/users/:id", authHandler.DeleteUser, authRequired, adminOnly)

	// --- Content routes (reads for any authenticated user, writes admin-only) ---
	content := e.Group("/api", authRequired)
	content.GET("/books", contentHandler.ListBooks)
	content.GET("/books/:id", contentHandler.GetBook)
	content.GET("/books/:id/chapters", contentHandler.ListChapters)
	content.POST("/books", contentHandler.CreateBook, adminOnly)
	content.PUT("/books/:id", contentHandler.UpdateBook, adminOnly)
	content.DELETE("/books/:id", contentHandler.DeleteBook, adminOnly)

	content.GET("/chapters/:id", contentHandler.GetChapter)
	content.GET("/chapters/:id/sections", contentHandler.ListSections)
	content.POST("/chapters", contentHandler.CreateChapter, adminOnly)
	content.PUT("/chapters/:id", contentHandler.UpdateChapter, adminOnly)
	content.DELETE("/chapters/:id", contentHandler.DeleteChapter, adminOnly)

	content.GET("/sections/:id", contentHandler.GetSection)
	content.GET("/sections/:id/snippets", contentHandler.ListSnippets)
	content.POST("/sections", contentHandler.CreateSection, adminOnly)
	content.PUT("/sections/:id", contentHandler.UpdateSection, adminOnly)
	content.DELETE("/sections/:id", contentHandler.DeleteSection, adminOnly)

	content.GET("/snippets/:id", contentHandler.GetSnippet)
	content.POST("/snippets", contentHandler.CreateSnippet, adminOnly)
	content.PUT("/snippets/:id", contentHandler.UpdateSnippet, adminOnly)
	content.DELETE("/snippets/:id", contentHandler.DeleteSnippet, adminOnly)

	// --- Realtime gateway ---
	// Auth is handled inside the handler: anonymous connections are
	// accepted, they just never flip a presence flag.
	e.GET("/ws/online-users", wsHandler.Serve)

	// --- Operational surface ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
