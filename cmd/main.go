package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisCache "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/cache/redis"
	grpcAdapter "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/grpc"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/http/router"
	natsAdapter "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/messaging/nats"
	memoryRepo "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/repository/memory"
	mongoRepo "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/repository/mongodb"
	pgRepo "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/repository/postgres"
	s3Storage "github.com/Abdurahmanit/GroupProject/stay-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/tracer"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// repositories is the store picked by STORE_DRIVER.
type repositories struct {
	houses    domain.HouseRepository
	reviews   domain.ReviewRepository
	favorites domain.FavoriteRepository
	tx        domain.TxManager
	close     func()
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(cfg.LoggerConfig())
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))
	cfg.LogSummary(appLogger)

	if cfg.OTExporterOTLPEndpoint != "" {
		tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	repos, err := openStore(startCtx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer repos.close()

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	houseOpts := usecase.HouseUsecaseOptions{
		CacheTTL: cfg.HouseCacheTTL,
		Metrics:  metricsManager,
	}

	if cfg.RedisAddress != "" {
		redisClient, err := redisCache.NewRedisClient(startCtx, redisCache.Options{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		houseOpts.Cache = redisCache.NewRedisCacheRepository(redisClient, appLogger)
	} else {
		appLogger.Info("House cache disabled (REDIS_ADDRESS not set).")
	}

	// Optional adapters stay as nil interfaces when unset.
	var publisher usecase.EventPublisher
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		appLogger.Info("Event publishing disabled (NATS_URL not set).")
	}
	houseOpts.Publisher = publisher

	var images usecase.ImageStore
	if cfg.MinioEndpoint != "" {
		storage, err := s3Storage.NewS3Storage(startCtx, s3Storage.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		images = storage
	} else {
		appLogger.Info("Image URLs disabled (MINIO_ENDPOINT not set).")
	}
	houseOpts.Images = images

	houseUsecase := usecase.NewHouseUsecase(repos.houses, repos.reviews, repos.favorites, repos.tx, houseOpts, appLogger)
	reviewUsecase := usecase.NewReviewUsecase(repos.houses, repos.reviews, repos.tx, publisher, metricsManager, appLogger)
	favoriteUsecase := usecase.NewFavoriteUsecase(repos.houses, repos.favorites, repos.tx, publisher, metricsManager, appLogger)
	viewBuilder := usecase.NewHouseViewBuilder(houseUsecase, repos.reviews, repos.favorites, images, appLogger)

	httpHandler := router.New(router.Handlers{
		Houses:    handler.NewHouseHandler(houseUsecase, viewBuilder, appLogger),
		Reviews:   handler.NewReviewHandler(reviewUsecase, appLogger),
		Favorites: handler.NewFavoriteHandler(favoriteUsecase, appLogger),
	}, router.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins(),
		Metrics:        metricsManager,
		RequestTimeout: 30 * time.Second,
	}, appLogger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	var grpcServer *grpcAdapter.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
		}
		grpcServer = grpcAdapter.NewServer(cfg.ServiceName, appLogger)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				appLogger.Fatal("gRPC server Serve error", zap.Error(err))
			}
		}()
	}

	metricsServer := metrics.NewMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager)
	if metricsServer != nil {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	if grpcServer != nil {
		grpcServer.SetServing(false)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
	appLogger.Info("Application shutting down...")
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongoRepo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongoRepo.EnsureIndexes(ctx, db, log); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return &repositories{
			houses:    mongoRepo.NewHouseRepository(db, log),
			reviews:   mongoRepo.NewReviewRepository(db, log),
			favorites: mongoRepo.NewFavoriteRepository(db, log),
			tx:        mongoRepo.NewTxManager(client, cfg.MongoUseTransactions),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error("Error disconnecting from MongoDB", zap.Error(err))
				}
			},
		}, nil

	case config.StorePostgres:
		db, err := pgRepo.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pgRepo.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("Connected to PostgreSQL")
		return &repositories{
			houses:    pgRepo.NewHouseRepository(db, log),
			reviews:   pgRepo.NewReviewRepository(db, log),
			favorites: pgRepo.NewFavoriteRepository(db, log),
			tx:        pgRepo.NewTxManager(db),
			close: func() {
				if err := db.Close(); err != nil {
					log.Error("Error closing PostgreSQL", zap.Error(err))
				}
			},
		}, nil

	default:
		log.Warn("Using the in-memory store; data is lost on restart")
		store := memoryRepo.NewStore()
		return &repositories{
			houses:    store.Houses(),
			reviews:   store.Reviews(),
			favorites: store.Favorites(),
			tx:        store,
			close:     func() {},
		}, nil
	}
}
