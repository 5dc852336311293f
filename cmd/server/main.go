package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/mes-platform/scheduling-service/internal/api/http"
	"github.com/mes-platform/scheduling-service/internal/application"
	"github.com/mes-platform/scheduling-service/internal/domain"
	kafkaAdapter "github.com/mes-platform/scheduling-service/internal/infrastructure/kafka"
	mongoRepo "github.com/mes-platform/scheduling-service/internal/infrastructure/mongodb"
	"github.com/mes-platform/scheduling-service/pkg/logging"
	"github.com/mes-platform/scheduling-service/pkg/metrics"
	"github.com/mes-platform/scheduling-service/pkg/middleware"
)

const serviceName = "scheduling-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting scheduling-service API")

	config := loadConfig()
	ctx := context.Background()

	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	mongoClient, err := mongoRepo.Connect(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	db := mongoClient.Database(config.MongoDB.Database)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	catalogRepo := mongoRepo.NewCatalogRepository(db)
	planRepo := mongoRepo.NewPlanRepository(db)

	var publisher domain.EventPublisher
	if len(config.KafkaBrokers) > 0 {
		kafkaPublisher := kafkaAdapter.NewEventPublisher(config.KafkaBrokers, config.KafkaTopic, m)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka event publisher initialized", "brokers", config.KafkaBrokers, "topic", config.KafkaTopic)
	} else {
		logger.Info("Kafka event publishing disabled")
	}

	planningService := application.NewPlanningService(
		catalogRepo,
		catalogRepo,
		planRepo,
		publisher,
		logger,
		m,
	)

	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))
	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Logger))
	router.Use(middleware.Metrics(m))

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return mongoClient.Ping(pingCtx, nil)
	}))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handlers := httpapi.NewHandlers(planningService, logger)
	httpapi.RegisterRoutes(router, handlers)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr   string
	MongoDB      *mongoRepo.Config
	KafkaBrokers []string
	KafkaTopic   string
	CORSOrigins  []string
}

func loadConfig() *Config {
	brokers := []string{}
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		brokers = strings.Split(v, ",")
	}
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB: &mongoRepo.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "scheduling_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
		},
		KafkaBrokers: brokers,
		KafkaTopic:   getEnv("KAFKA_TOPIC", "mes.plans.events"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
