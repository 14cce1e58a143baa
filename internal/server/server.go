// Package server assembles the HTTP application: middleware, handlers and
// every route under /api.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/config"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/repository"
	"github.com/FrankWaweru369/Infinity-backend/internal/routes"
	"github.com/FrankWaweru369/Infinity-backend/internal/services"
	"github.com/FrankWaweru369/Infinity-backend/internal/storage"
	"github.com/FrankWaweru369/Infinity-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const (
	Version = "1.0.0"

	// Large enough for a reel upload plus form fields.
	bodyLimit       = 110 << 20
	shutdownTimeout = 10 * time.Second
)

// Deps are the connections the server is built on.
type Deps struct {
	Config config.Config
	Log    *zap.Logger
	Client *mongo.Client
	DB     *mongo.Database
	Redis  *redis.Client
	Blobs  storage.Blob
}

type Server struct {
	App     *fiber.App
	limiter *middleware.IPRateLimiter
	notis   *services.NotificationService
	log     *zap.Logger
	addr    string
}

func newApp(cfg config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Infinity",
		BodyLimit:    bodyLimit,
		ErrorHandler: controllers.ErrorHandler(log),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLog(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	return app
}

type healthResp struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type bannerResp struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func mountHealth(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(bannerResp{
			Message: "Infinity Social Media API",
			Version: Version,
			Endpoints: map[string]string{
				"auth":          "/api/auth",
				"users":         "/api/users",
				"posts":         "/api/posts",
				"reels":         "/api/reels",
				"explore":       "/api/explore",
				"notifications": "/api/notifications",
				"analytics":     "/api/analytics",
				"videos":        "/api/videos",
				"health":        "/api/health",
				"docs":          "/docs/index.html",
			},
		})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(healthResp{
			Status:    "OK",
			Message:   "Server is running",
			Timestamp: time.Now().UTC(),
		})
	})
}

// New wires repositories, services and handlers onto a fresh fiber app.
func New(d Deps) *Server {
	cfg, log := d.Config, d.Log

	users := repository.NewUserRepository(d.Client, d.DB)
	posts := repository.NewPostRepository(d.DB)
	reels := repository.NewReelRepository(d.DB)
	notis := repository.NewNotificationRepository(d.DB)
	visits := repository.NewAnalyticsRepository(d.DB)

	identity := services.NewIdentityService(users, d.Redis, cfg.ProfileCacheTTL, log.Named("identity"))
	notifications := services.NewNotificationService(notis, identity, log.Named("notifications"))
	filter := utils.NewTextFilter(cfg.ProfanityWords)
	views := services.NewViews(identity)

	postTree := engagement.NewManager[*models.Post](apperr.KindPost, posts, identity,
		engagement.WithNotifier(notifications),
		engagement.WithTextFilter(filter.Clean),
		engagement.WithLogger(log.Named("comments")))
	reelTree := engagement.NewManager[*models.Reel](apperr.KindReel, reels, identity,
		engagement.WithNotifier(notifications),
		engagement.WithTextFilter(filter.Clean),
		engagement.WithLogger(log.Named("comments")))

	auth := services.NewAuthService(users, services.NewMailer(services.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	}, log.Named("mail")), services.AuthConfig{
		Secret:      cfg.JWTSecret,
		TTL:         cfg.JWTTTL,
		FrontendURL: cfg.FrontendURL,
	}, log.Named("auth"))
	userSvc := services.NewUserService(users, identity, identity, d.Blobs, notifications, log.Named("users"))
	postSvc := services.NewPostService(posts, views, d.Blobs, notifications, filter.Clean, log.Named("posts"))
	reelSvc := services.NewReelService(reels, views, d.Blobs, notifications, log.Named("reels"))
	analytics := services.NewAnalyticsService(visits, users, identity, log.Named("analytics"))

	app := newApp(cfg, log)
	app.Use(middleware.Analytics(analytics))
	app.Use(middleware.JWTUidOnly(cfg.JWTSecret))

	app.Get("/docs/*", swagger.HandlerDefault)
	mountHealth(app)
	if d.Config.StorageDriver == "local" && strings.HasPrefix(cfg.PublicBaseURL, "/") {
		app.Static(cfg.PublicBaseURL, cfg.UploadDir)
	}

	limiter := middleware.NewIPRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
	api := app.Group("/api")
	routes.SetupAuth(api, &controllers.AuthHandler{Auth: auth, Users: userSvc, Secret: cfg.JWTSecret},
		middleware.RateLimit(limiter))
	routes.SetupRoutesUser(api, &controllers.UserHandler{Users: userSvc, Passwords: auth})
	routes.SetupRoutesPost(api, &controllers.PostHandler{Posts: postSvc}, &controllers.CommentHandler{Tree: postTree})
	routes.SetupRoutesReel(api, &controllers.ReelHandler{Reels: reelSvc}, &controllers.CommentHandler{Tree: reelTree})
	routes.SetupRoutesExplore(api, &controllers.ExploreHandler{Explore: services.NewExploreService(users, posts, views)})
	routes.SetupRoutesVideo(api, &controllers.VideoHandler{Videos: services.NewVideoService(reels)})
	routes.NotificationRoutes(api, &controllers.NotificationHandler{Notifications: notifications})
	routes.SetupRoutesAnalytics(api, &controllers.AnalyticsHandler{Analytics: analytics})
	routes.SetupRoutesUpload(api, &controllers.UploadHandler{Blobs: d.Blobs})

	return &Server{App: app, limiter: limiter, notis: notifications, log: log, addr: ":" + cfg.Port}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go s.limiter.Run(done)

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.addr))
		errc <- s.App.Listen(s.addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down")
	if err := s.App.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if !s.notis.Wait(shutdownTimeout) {
		s.log.Warn("notifications still pending at shutdown")
	}
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
