// @title Infinity Social Media API
// @version 1.0
// @description Posts, reels, comments, follows, notifications and analytics.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/FrankWaweru369/Infinity-backend/docs"

	"github.com/FrankWaweru369/Infinity-backend/bootstrap"
	"github.com/FrankWaweru369/Infinity-backend/config"
	"github.com/FrankWaweru369/Infinity-backend/database"
	"github.com/FrankWaweru369/Infinity-backend/internal/jobs"
	"github.com/FrankWaweru369/Infinity-backend/internal/logger"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/repository"
	"github.com/FrankWaweru369/Infinity-backend/internal/server"
	"github.com/FrankWaweru369/Infinity-backend/internal/storage"

	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const connectTimeout = 15 * time.Second

func main() {
	app := &cli.Command{
		Name:  "infinity",
		Usage: "Infinity social media backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Ensure indexes and repair comment trees with missing authors",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "only report what would change",
					},
				},
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command starts from.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	client *mongo.Client
	db     *mongo.Database
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Env, cfg.Debug)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, db, err := database.ConnectMongo(cctx, cfg.MongoURI, cfg.MongoDB, log)
	if err != nil {
		return nil, err
	}
	if err := bootstrap.EnsureIndexes(cctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return &env{cfg: cfg, log: log, client: client, db: db}, nil
}

func (e *env) close() {
	if err := e.client.Disconnect(context.Background()); err != nil {
		e.log.Warn("mongo disconnect", zap.Error(err))
	}
	_ = e.log.Sync()
}

func serve(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	cfg := e.cfg

	rdb := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, e.log)
	if rdb != nil {
		defer rdb.Close()
	}

	blobs, err := storage.New(ctx, storage.Config{
		Driver:        cfg.StorageDriver,
		UploadDir:     cfg.UploadDir,
		PublicBaseURL: cfg.PublicBaseURL,
		S3Bucket:      cfg.S3Bucket,
		S3Region:      cfg.S3Region,
		S3Endpoint:    cfg.S3Endpoint,
		S3AccessKey:   cfg.S3AccessKey,
		S3SecretKey:   cfg.S3SecretKey,
		S3PublicURL:   cfg.S3PublicURL,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	sched := jobs.NewScheduler(e.log.Named("jobs"))
	if err := sched.RegisterRetention(
		repository.NewAnalyticsRepository(e.db),
		repository.NewNotificationRepository(e.db),
		cfg.AnalyticsRetention,
	); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Deps{
		Config: cfg,
		Log:    e.log,
		Client: e.client,
		DB:     e.db,
		Redis:  rdb,
		Blobs:  blobs,
	})
	return srv.Run(ctx)
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	dry := cmd.Bool("dry-run")

	posts := repository.NewPostRepository(e.db)
	reels := repository.NewReelRepository(e.db)

	postRep, err := bootstrap.DropAnonymousComments[models.Post](ctx, posts.Col, posts, dry, e.log)
	if err != nil {
		return err
	}
	reelRep, err := bootstrap.DropAnonymousComments[models.Reel](ctx, reels.Col, reels, dry, e.log)
	if err != nil {
		return err
	}
	for _, r := range []bootstrap.Report{postRep, reelRep} {
		e.log.Info("comment repair",
			zap.Bool("dry_run", dry),
			zap.String("summary", r.String()))
	}
	return nil
}
