// Package server собирает HTTP API проверки контрагентов: поиск по
// санкционному списку, разбор деревьев владения, обработка сообщений
// SWIFT и аутентификация.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"screener/auth"
	"screener/internal/config"
	"screener/registry"
	"screener/sdn"
	"screener/server/middleware"
	"screener/swift"
)

// Server HTTP сервер со всеми сервисами приложения
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	sdnCache   *sdn.Cache
	matcher    *sdn.Matcher
	resolver   *registry.Resolver
	orgClient  *registry.OrgInfoClient
	swiftStore *swift.Store
	authSvc    *auth.Service
	httpServer *http.Server
}

// New создает сервер и настраивает маршруты
func New(
	cfg *config.Config,
	logger *slog.Logger,
	sdnCache *sdn.Cache,
	matcher *sdn.Matcher,
	resolver *registry.Resolver,
	orgClient *registry.OrgInfoClient,
	swiftStore *swift.Store,
	authSvc *auth.Service,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:     cfg,
		logger:     logger,
		sdnCache:   sdnCache,
		matcher:    matcher,
		resolver:   resolver,
		orgClient:  orgClient,
		swiftStore: swiftStore,
		authSvc:    authSvc,
	}

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.buildRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(s.logger))
	router.Use(middleware.Recovery(s.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Gzip())

	api := router.Group("/api")
	{
		sdnGroup := api.Group("/sdn")
		{
			sdnGroup.GET("/health", s.handleSDNHealth)
			sdnGroup.GET("/list", s.handleSDNList)
			sdnGroup.GET("/search", s.handleSDNSearch)
			sdnGroup.POST("/update", s.handleSDNUpdate)
		}

		api.GET("/company/:inn", s.handleCompany)
		api.GET("/orginfo/search", s.handleOrgInfoSearch)

		swiftGroup := api.Group("/swift")
		{
			swiftGroup.POST("/process", s.handleSwiftProcess)
			swiftGroup.GET("/messages", middleware.RequireAuth(s.authSvc), s.handleSwiftMessages)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
		}
	}

	return router
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	s.logger.Info("starting server", "port", s.config.Port)

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown корректно останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
