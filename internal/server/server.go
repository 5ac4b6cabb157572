// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tourmarket/internal/config"
	"tourmarket/internal/database"
	"tourmarket/internal/middleware"
	"tourmarket/internal/modules/admin"
	"tourmarket/internal/modules/auth"
	"tourmarket/internal/modules/booking"
	"tourmarket/internal/modules/catalog"
	"tourmarket/internal/modules/community"
	"tourmarket/internal/modules/review"
	jwtsvc "tourmarket/internal/pkg/jwt"
	"tourmarket/internal/pkg/keylock"
	"tourmarket/internal/pkg/response"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// NewRouter builds the API. db must already be migrated.
func NewRouter(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) (*gin.Engine, error) {
	enforcer, err := policy.New()
	if err != nil {
		return nil, fmt.Errorf("server.NewRouter: %w", err)
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	tourRepo := repository.NewTourRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	customTourRepo := repository.NewCustomTourRepository(db)
	txManager := repository.NewTxManager(db)

	// one lock table shared by every engine; keys are namespaced per engine
	locks := keylock.New()
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	// services
	authService := auth.NewService(userRepo, tokens, log.WithField("module", "auth"))
	catalogService := catalog.NewService(tourRepo, bookingRepo, reviewRepo, txManager, enforcer, log.WithField("module", "catalog"))
	bookingService := booking.NewService(bookingRepo, tourRepo, txManager, locks, enforcer, log.WithField("module", "booking"))
	reviewService := review.NewService(reviewRepo, bookingRepo, tourRepo, txManager, locks, enforcer, log.WithField("module", "review"))
	communityService := community.NewService(customTourRepo, txManager, locks, enforcer, log.WithField("module", "community"))
	adminService := admin.NewService(tourRepo, communityService, bookingService, enforcer, log.WithField("module", "admin"))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Timeout(cfg.RequestTimeout),
	)
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Can't find %s on this server", c.Request.URL.Path))
	})

	api := r.Group("/api")
	api.GET("/health", health(db))

	public := api.Group("")
	public.Use(middleware.OptionalAuth(tokens))

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(tokens))

	auth.NewHandler(authService).RegisterRoutes(public, protected)
	catalog.NewHandler(catalogService).RegisterRoutes(public, protected)
	booking.NewHandler(bookingService).RegisterRoutes(public, protected)
	review.NewHandler(reviewService).RegisterRoutes(public, protected)
	community.NewHandler(communityService).RegisterRoutes(public, protected)

	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.AdminOnly())
	{
		admin.NewHandler(adminService).RegisterRoutes(adminGroup)
	}

	return r, nil
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"database": "up"})
	}
}
