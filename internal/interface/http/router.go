package http

import (
	"net/http"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/config"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/oauth"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/ratelimit"
	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps bundles everything the HTTP surface needs
type RouterDeps struct {
	Config      *config.Config
	Logger      logger.Logger
	Metrics     *metrics.Metrics
	OAuth       *oauth.GoogleOAuth
	Limiter     *ratelimit.Limiter
	Bookings    *usecase.BookingService
	Invitations *usecase.InvitationService
	Accounts    *usecase.AccountService
	Access      *usecase.AccessService
	Promos      *usecase.PromoService
	Contact     *usecase.ContactService
}

// NewRouter wires middleware, handlers and route groups
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(deps.Logger, deps.Metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authMW := NewAuthMiddleware(deps.OAuth, deps.Access, deps.Logger)
	throttle := RateLimit(deps.Limiter, deps.Logger)

	bookingHandler := NewBookingHandler(deps.Bookings, deps.Logger)
	invitationHandler := NewInvitationHandler(deps.Invitations, deps.Logger)
	authHandler := NewAuthHandler(deps.OAuth, deps.Accounts, deps.Access, deps.Logger)
	promoHandler := NewPromoHandler(deps.Promos, deps.Logger)
	userHandler := NewUserHandler(deps.Accounts, deps.Access, deps.Logger)
	contactHandler := NewContactHandler(deps.Contact, deps.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Config.AppVersion})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		// Public surface, throttled by client IP
		apiV1.POST("/bookings", throttle, bookingHandler.Create)
		apiV1.POST("/contact", throttle, contactHandler.Submit)
		apiV1.GET("/invitations/validate", throttle, invitationHandler.Validate)
		apiV1.GET("/promos/active", promoHandler.Active)

		auth := apiV1.Group("/auth")
		{
			auth.GET("/google", authHandler.GoogleLogin)
			auth.POST("/google/callback", throttle, authHandler.GoogleCallback)
			auth.POST("/signup", throttle, authHandler.Signup)
			auth.POST("/verify-email", throttle, authHandler.VerifyEmail)
		}

		// Authenticated self-service
		apiV1.GET("/me", authMW.Required(), authHandler.Me)
		apiV1.GET("/me/permissions", authMW.Required(), authHandler.Permissions)

		admin := apiV1.Group("/admin", authMW.Required())
		{
			bookings := admin.Group("/bookings", authMW.Permission(entity.PermManageBookings))
			{
				bookings.GET("", bookingHandler.List)
				bookings.GET("/stats", bookingHandler.Stats)
				bookings.GET("/:id", bookingHandler.Get)
				bookings.PATCH("/:id", bookingHandler.Update)
				bookings.DELETE("/:id", bookingHandler.Delete)
			}

			invitations := admin.Group("/invitations", authMW.Permission(entity.PermManageUsers))
			{
				invitations.POST("", invitationHandler.Issue)
				invitations.GET("", invitationHandler.List)
				invitations.POST("/:id/resend", invitationHandler.Resend)
				invitations.DELETE("/:id", invitationHandler.Cancel)
			}

			users := admin.Group("/users", authMW.Permission(entity.PermManageUsers))
			{
				users.GET("", userHandler.List)
				users.POST("", userHandler.Create)
				users.PATCH("/:id/role", userHandler.ChangeRole)
				users.POST("/merge", userHandler.MergeDuplicates)
			}

			promos := admin.Group("/promos", authMW.Permission(entity.PermManagePromos))
			{
				promos.POST("", promoHandler.Create)
				promos.GET("", promoHandler.List)
				promos.GET("/:id", promoHandler.Get)
				promos.PATCH("/:id", promoHandler.Update)
				promos.DELETE("/:id", promoHandler.Delete)
			}
		}
	}

	return router
}
