package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/bus"
	"github.com/mascotia/storefront/internal/checkout"
	storehttp "github.com/mascotia/storefront/internal/http"
	"github.com/mascotia/storefront/internal/poller"
	"github.com/mascotia/storefront/internal/session"
	"github.com/mascotia/storefront/internal/slot"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	CartBackend     string
	KafkaBrokers    string
	PaymentAPIURL   string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		CartBackend:     getEnv("CART_BACKEND", "redis"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		PaymentAPIURL:   getEnv("PAYMENT_API_URL", "http://localhost:9090"),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	logger.Info("Redis ping succeeded", zap.String("addr", cfg.RedisAddr))

	var cartSlot slot.Slot
	switch cfg.CartBackend {
	case "redis":
		cartSlot = slot.NewRedisSlot(redisClient)
	case "mongo":
		mongoDB, err := slot.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoDB.Client().Disconnect(ctx)
		cartSlot = slot.NewMongoSlot(mongoDB)
		logger.Info("Connected to MongoDB", zap.String("uri", cfg.MongoURI))
	case "memory":
		cartSlot = slot.NewMemorySlot()
	default:
		logger.Fatal("Unknown cart backend", zap.String("backend", cfg.CartBackend))
	}

	changeBus := bus.NewRedisBus(redisClient, logger)
	sessions := session.NewRegistry(ctx, cartSlot, changeBus, logger)
	checkoutSvc := checkout.NewService(cfg.PaymentAPIURL, logger)

	if cfg.KafkaBrokers != "" {
		ordersPoller := poller.New(cartSlot, changeBus, logger, strings.Split(cfg.KafkaBrokers, ",")...)
		defer ordersPoller.Close()
		go ordersPoller.Run(ctx)
		logger.Info("Orders poller started", zap.String("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("KAFKA_BROKERS not set, carts will not be erased after checkout")
	}

	cartHandler := storehttp.NewCartHandler(sessions, logger)
	checkoutHandler := storehttp.NewCheckoutHandler(sessions, checkoutSvc, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      storehttp.NewRouter(cartHandler, checkoutHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Storefront listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
