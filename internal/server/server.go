package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/kvstore"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	backend   kvstore.Backend
	redis     *redis.Client
	publisher events.Publisher
}

// NewServer wires repositories, services and handlers over the chosen
// backend and seeds an empty store. redisClient may be nil when neither the
// store nor the login limiter needs it.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, backend kvstore.Backend, redisClient *redis.Client, publisher events.Publisher) (*Server, error) {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	// Initialize repositories
	uow := repository.NewUnitOfWork(backend, repository.NewNamespaces(cfg.Store.NamespacePrefix))

	hasher, err := service.NewPasswordHasher(cfg.Store.PasswordHashing)
	if err != nil {
		return nil, err
	}

	adminDefaults := domain.AdminCredential{Username: cfg.Admin.Username, Password: cfg.Admin.Password}
	if err := service.Bootstrap(ctx, uow, hasher, adminDefaults, cfg.Shop.DefaultCategories, logger); err != nil {
		return nil, fmt.Errorf("failed to bootstrap store: %w", err)
	}

	// Initialize services
	tokens := service.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)
	catalogService := service.NewCatalogService(uow, logger)
	cartService := service.NewCartService(uow, logger)
	fulfillmentService := service.NewFulfillmentService(uow, publisher, logger)
	accountService := service.NewAccountService(uow, hasher, tokens, logger)
	authenticator := service.NewCredentialAuthenticator(uow, hasher, adminDefaults)
	adminService := service.NewAdminService(authenticator, tokens, cfg.Admin.RecoveryKey, logger)

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack(cfg.Server.TrustProxy) {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authMiddleware := custommiddleware.AuthMiddleware(tokens, logger)
	guards := transport.Guards{
		Admin: func(next http.Handler) http.Handler {
			return authMiddleware(custommiddleware.RequireAdmin(logger)(next))
		},
		Customer: func(next http.Handler) http.Handler {
			return authMiddleware(custommiddleware.RequireRole([]string{service.RoleCustomer}, logger)(next))
		},
	}
	if cfg.Shop.LoginRateLimit > 0 && redisClient != nil {
		guards.LoginRate = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.Shop.LoginRateLimit,
			Window:            time.Minute,
			KeyPrefix:         cfg.Store.NamespacePrefix + ":ratelimit",
		}, logger)
	}

	// Register routes
	transport.NewCatalogHandler(catalogService, logger).RegisterRoutes(router, guards)
	transport.NewCartHandler(cartService, fulfillmentService, cfg.Shop.Phone, logger).RegisterRoutes(router)
	transport.NewAccountHandler(accountService, fulfillmentService, logger).RegisterRoutes(router, guards)
	transport.NewAdminHandler(adminService, fulfillmentService, logger).RegisterRoutes(router, guards)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		backend:   backend,
		redis:     redisClient,
		publisher: publisher,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.publisher.Close(); err != nil {
		s.logger.Error("Failed to close event publisher", zap.Error(err))
	}

	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("Failed to close store backend", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
