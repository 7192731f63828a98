package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/wanderstay/bookings/internal/auth"
	"github.com/wanderstay/bookings/internal/config"
	"github.com/wanderstay/bookings/internal/domain/amenity"
	"github.com/wanderstay/bookings/internal/domain/booking"
	"github.com/wanderstay/bookings/internal/domain/host"
	"github.com/wanderstay/bookings/internal/domain/property"
	"github.com/wanderstay/bookings/internal/domain/review"
	"github.com/wanderstay/bookings/internal/domain/user"
	"github.com/wanderstay/bookings/internal/http/handlers"
	"github.com/wanderstay/bookings/internal/http/middlewares"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/redisclient"
	"github.com/wanderstay/bookings/internal/repo/postgres"
	"github.com/wanderstay/bookings/internal/resource"
)

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, rdb *redisclient.Client, promReg *prometheus.Registry) (*gin.Engine, error) {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	prom := observability.NewProm(promReg)

	// middleware
	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("bookings-api"))
	r.Use(prom.GinHandleMiddleware())

	// health + metrics
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Welcome to the Bookings API!"})
	})

	// auth wiring
	jwtManager := auth.NewManager(cfg.AuthSecret, cfg.TokenTTL)
	authMW := middlewares.NewAuthMiddleware(jwtManager)
	limiter := middlewares.NewRateLimiter(rdb, cfg.RateLimit, cfg.RateWindow)

	// repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	hostsRepo := postgres.NewHostsRepo(pool, prom)
	propertiesRepo := postgres.NewPropertiesRepo(pool, prom)
	bookingsRepo := postgres.NewBookingsRepo(pool, prom)
	reviewsRepo := postgres.NewReviewsRepo(pool, prom)
	amenitiesRepo := postgres.NewAmenitiesRepo(pool, prom)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)

	r.POST("/signup", limiter.Middleware("signup"), authHandler.SignUp)
	r.POST("/login", limiter.Middleware("login"), authHandler.Login)
	r.GET("/protected", authMW.RequireAuth(), authHandler.Protected)

	// resource controllers, one per entity kind
	reg := resource.NewRegistry[handlers.Controller]()

	reg.Register(resource.KindUser,
		handlers.NewResourceHandler(resource.KindUser, usersRepo, user.User.Public).
			WithCreateGuard(func(ctx context.Context, u user.User) error {
				taken, err := usersRepo.UsernameExists(ctx, u.Username)

				if err != nil {
					return err
				}

				if taken {
					return resource.Conflict("user with this username already exists.")
				}

				return nil
			}))

	reg.Register(resource.KindHost,
		handlers.NewResourceHandler(resource.KindHost, hostsRepo, host.Host.Public).
			WithCreateGuard(func(ctx context.Context, h host.Host) error {
				taken, err := hostsRepo.UsernameExists(ctx, h.Username)

				if err != nil {
					return err
				}

				if taken {
					return resource.Conflict("host with this username already exists.")
				}

				return nil
			}))

	reg.Register(resource.KindProperty,
		handlers.NewResourceHandler(resource.KindProperty, propertiesRepo, handlers.Identity[property.Property]))

	reg.Register(resource.KindBooking,
		handlers.NewResourceHandler(resource.KindBooking, bookingsRepo, handlers.Identity[booking.Booking]))

	reg.Register(resource.KindReview,
		handlers.NewResourceHandler(resource.KindReview, reviewsRepo, handlers.Identity[review.Review]))

	reg.Register(resource.KindAmenity,
		handlers.NewResourceHandler(resource.KindAmenity, amenitiesRepo, handlers.Identity[amenity.Amenity]))

	// Mounting through the registry keeps an unknown kind a startup error.
	for _, kind := range resource.Kinds() {
		ctrl, err := reg.ForKind(kind)

		if err != nil {
			return nil, err
		}

		ctrl.Mount(r.Group("/"+kind.Plural(), authMW.OptionalAuth()))
	}

	return r, nil
}
