package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spay.backend/internal/config"
	infraevents "spay.backend/internal/infrastructure/events"
	"spay.backend/internal/infrastructure/jobs"
	"spay.backend/internal/infrastructure/repositories"
	"spay.backend/internal/interfaces/http/handlers"
	"spay.backend/internal/interfaces/http/middleware"
	"spay.backend/internal/usecases"
	"spay.backend/pkg/jwt"
	"spay.backend/pkg/logger"
	"spay.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			TranslateError: true,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories and the unit of work
	walletRepo := repositories.NewWalletRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	escrowRepo := repositories.NewEscrowRepository(db)
	uow := repositories.NewUnitOfWork(db)
	accessor := repositories.NewWalletAccessor(walletRepo, uow, cfg.Engine.WalletLockTimeout)

	// Domain event publisher (best-effort, for the external notifier)
	publisher := infraevents.NewRedisPublisher(cfg.Engine.EventChannel)

	// Usecases
	escrowUsecase := usecases.NewEscrowUsecase(walletRepo, escrowRepo, txRepo, accessor, uow, publisher, cfg.Engine.EscrowTTL)
	transferUsecase := usecases.NewTransferUsecase(walletRepo, txRepo, accessor, escrowUsecase, publisher)

	// Seed the pending-escrow gauge so metrics survive restarts.
	if err := escrowUsecase.SyncOpenEscrows(context.Background()); err != nil {
		logger.Warn(context.Background(), "failed to seed pending escrow gauge", zap.Error(err))
	}

	// Handlers
	transferHandler := handlers.NewTransferHandler(transferUsecase)
	escrowHandler := handlers.NewEscrowHandler(escrowUsecase)
	rewardHandler := handlers.NewRewardHandler(transferUsecase)
	walletHandler := handlers.NewWalletHandler(transferUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Background escrow expiry sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewEscrowExpiryJob(escrowRepo, escrowUsecase, cfg.Engine.SweepInterval)
	go expiryJob.Start(ctx)
	defer expiryJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		transferHandler: transferHandler,
		escrowHandler:   escrowHandler,
		rewardHandler:   rewardHandler,
		walletHandler:   walletHandler,
		authMiddleware:  authMiddleware,
	})

	logger.Info(ctx, "Starting server", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}
