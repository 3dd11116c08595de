package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/labstock-service/config"
	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/report"
	"github.com/fekuna/labstock-service/pkg/broker"
	"github.com/fekuna/labstock-service/pkg/cache"
	"github.com/fekuna/labstock-service/pkg/i18n"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/fekuna/labstock-service/pkg/middleware"
	"github.com/fekuna/labstock-service/pkg/search"

	alertH "github.com/fekuna/labstock-service/internal/alert/handler"
	alertUCPkg "github.com/fekuna/labstock-service/internal/alert/usecase"
	approvalH "github.com/fekuna/labstock-service/internal/approval/handler"
	approvalUCPkg "github.com/fekuna/labstock-service/internal/approval/usecase"
	"github.com/fekuna/labstock-service/internal/assistant"
	assistantH "github.com/fekuna/labstock-service/internal/assistant/handler"
	assistantUCPkg "github.com/fekuna/labstock-service/internal/assistant/usecase"
	chatH "github.com/fekuna/labstock-service/internal/chat/handler"
	chatUCPkg "github.com/fekuna/labstock-service/internal/chat/usecase"
	depotH "github.com/fekuna/labstock-service/internal/depot/handler"
	depotUCPkg "github.com/fekuna/labstock-service/internal/depot/usecase"
	invH "github.com/fekuna/labstock-service/internal/inventory/handler"
	invUCPkg "github.com/fekuna/labstock-service/internal/inventory/usecase"
	movementH "github.com/fekuna/labstock-service/internal/movement/handler"
	movementUCPkg "github.com/fekuna/labstock-service/internal/movement/usecase"
	prodH "github.com/fekuna/labstock-service/internal/product/handler"
	prodUCPkg "github.com/fekuna/labstock-service/internal/product/usecase"
	reportH "github.com/fekuna/labstock-service/internal/report/handler"
	submissionH "github.com/fekuna/labstock-service/internal/submission/handler"
	submissionUCPkg "github.com/fekuna/labstock-service/internal/submission/usecase"
	"github.com/fekuna/labstock-service/internal/user"
	userDTO "github.com/fekuna/labstock-service/internal/user/dto"
	userH "github.com/fekuna/labstock-service/internal/user/handler"
	userUCPkg "github.com/fekuna/labstock-service/internal/user/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n
	i18n.Init()
	if path := os.Getenv("I18N_EXTRA_LOCALE"); path != "" {
		if err := i18n.Load(path); err != nil {
			log.Printf("Failed to load locale %s: %v", path, err)
		}
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Redis (optional)
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis (locks, cache and drafts fall back to memory)", zap.Error(err))
		} else {
			redisClient = rc
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 4. Initialize Store
	repos, err := openStore(cfg, redisClient, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.Error(err))
	}
	defer repos.close()

	// 5. Initialize Elasticsearch (optional)
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Change feed: kafka when enabled, in-process routing otherwise
	router := changefeed.NewRouter(appLogger)
	var feed changefeed.Publisher = changefeed.NewLocalPublisher(router)
	if cfg.Kafka.Enabled {
		kafkaCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer := broker.NewProducer(kafkaCfg)
		defer producer.Close()
		consumer := broker.NewConsumer(kafkaCfg)
		defer consumer.Close()

		feed = changefeed.NewKafkaPublisher(producer, appLogger)
		go changefeed.NewListener(consumer, router, appLogger).Start(ctx)
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 7. Initialize UseCases
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	userUC := userUCPkg.NewUserUseCase(repos.users, tokens, appLogger)
	depotUC := depotUCPkg.NewDepotUseCase(repos.depots, appLogger)
	movementUC := movementUCPkg.NewMovementUseCase(repos.movements, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(repos.inventory, repos.depots, repos.locker, feed, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.products, invUC, redisClient, esClient, appLogger)
	chatUC := chatUCPkg.NewChatUseCase(repos.chat, feed, appLogger)
	submissionUC := submissionUCPkg.NewSubmissionUseCase(
		repos.submissions, repos.drafts, repos.products, repos.depots,
		chatUC, report.NewArchiver(cfg.Export.Dir), feed, appLogger,
	)
	approvalUC := approvalUCPkg.NewApprovalUseCase(repos.submissions, invUC, feed, appLogger)
	alertUC := alertUCPkg.NewAlertUseCase(repos.alerts, repos.products, repos.depots, feed, appLogger)

	generator, err := assistant.NewGenerator(ctx, cfg.AI.APIKey)
	if err != nil {
		appLogger.Warn("Could not create generative AI client", zap.Error(err))
		generator = nil
	}
	assistantUC := assistantUCPkg.NewAssistantUseCase(generator, cfg.AI.Model, repos.products, movementUC, appLogger)

	router.Subscribe(changefeed.TableProducts, prodUC)
	router.Subscribe(changefeed.TableDepots, prodUC)

	if err := prodUC.SyncIndex(ctx); err != nil {
		appLogger.Warn("Search index sync failed", zap.Error(err))
	}
	bootstrapAdmin(ctx, cfg, userUC, appLogger)

	// 8. Initialize Handlers
	httpHandlers := &handlers{
		user:       userH.NewUserHandler(userUC, appLogger),
		depot:      depotH.NewDepotHandler(depotUC, appLogger),
		product:    prodH.NewProductHandler(prodUC, depotUC, appLogger),
		inventory:  invH.NewInventoryHandler(invUC, appLogger),
		movement:   movementH.NewMovementHandler(movementUC, depotUC, appLogger),
		submission: submissionH.NewSubmissionHandler(submissionUC, appLogger),
		approval:   approvalH.NewApprovalHandler(approvalUC, appLogger),
		chat:       chatH.NewChatHandler(chatUC, appLogger),
		alert:      alertH.NewAlertHandler(alertUC, appLogger),
		report:     reportH.NewReportHandler(prodUC, movementUC, submissionUC, depotUC, appLogger),
		assistant:  assistantH.NewAssistantHandler(assistantUC, depotUC, appLogger),
	}

	// 9. Start HTTP Server
	if !logConfig.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(appLogger),
		middleware.Recovery(appLogger),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	registerRoutes(engine, httpHandlers, tokens, appLogger)

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
	}

	// 10. Start gRPC Server (health + reflection)
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.LoggingInterceptor(appLogger)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	if err := repos.ping(ctx); err != nil {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		appLogger.Warn("Store is not reachable", zap.Error(err))
	} else {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	// Let submission exports and notifications finish.
	submissionUC.Wait()
	cancel()
	appLogger.Info("Server stopped")
}

// bootstrapAdmin creates the first admin account when ADMIN_PASSWORD is set.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, users user.UseCase, log logger.ZapLogger) {
	if cfg.Admin.Password == "" {
		return
	}
	_, err := users.CreateUser(ctx, &userDTO.CreateUserInput{
		Username:    cfg.Admin.Username,
		DisplayName: "Administrateur",
		Password:    cfg.Admin.Password,
		Role:        model.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info("Admin account created", zap.String("username", cfg.Admin.Username))
	case apperror.Is(err, apperror.KindConflict):
	default:
		log.Warn("Could not create admin account", zap.Error(err))
	}
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
