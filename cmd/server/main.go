package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecommerce-cloud/backend/internal/analytics"
	"github.com/ecommerce-cloud/backend/internal/audit"
	"github.com/ecommerce-cloud/backend/internal/config"
	"github.com/ecommerce-cloud/backend/internal/database"
	"github.com/ecommerce-cloud/backend/internal/handlers"
	"github.com/ecommerce-cloud/backend/internal/metrics"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/ecommerce-cloud/backend/internal/repository/memory"
	"github.com/ecommerce-cloud/backend/internal/repository/postgres"
	"github.com/ecommerce-cloud/backend/internal/repository/redisdoc"
	"github.com/ecommerce-cloud/backend/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title E-commerce Backend API
// @version 1.0
// @description Users, stored cards, card authorization, checkout and sales reporting
// @host localhost:8080
// @BasePath /
// @schemes http https

const productImageDir = "./static/products"

func main() {
	cfg := config.Load(".env")

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := openStore(startCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sinks, closeSinks := buildSinks(cfg.Analytics)
	defer closeSinks()

	dispatcher := analytics.NewDispatcher(analytics.Options{
		Workers:     cfg.Analytics.Workers,
		QueueSize:   cfg.Analytics.QueueSize,
		MaxAttempts: cfg.Analytics.MaxAttempts,
		Backoff:     cfg.Analytics.Backoff,
		Timeout:     cfg.Analytics.Timeout,
	}, m, sinks...)

	auditLogger := audit.NewLogger()
	cardService := services.NewCardService(store, auditLogger, m, cfg.AuthorizationRetries)

	router := handlers.NewRouter(handlers.RouterConfig{
		Users:          services.NewUserService(store),
		Cards:          cardService,
		Orders:         services.NewCheckoutService(store, cardService, dispatcher, auditLogger, m),
		Products:       services.NewProductService(store.Products),
		Reports:        services.NewReportService(store.Orders),
		Metrics:        m,
		Sinks:          dispatcher.Sinks,
		JWTSecret:      cfg.Auth.JWTSecret,
		ImageDir:       productImageDir,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on port %s (storage: %s, analytics sinks: %v)", cfg.Server.Port, cfg.Storage, dispatcher.Sinks())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Printf("Analytics queue not drained: %v", err)
	}

	log.Println("Server exited")
}

// openStore wires the configured storage driver. Postgres holds users,
// addresses, cards and the ledger; Redis holds the product and order
// documents.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(), error) {
	if cfg.Storage != config.StoragePostgres {
		log.Println("Using in-memory storage")
		return memory.New(), func() {}, nil
	}

	db, err := database.OpenPostgres(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	rdb, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	store := &repository.Store{
		Users:     postgres.NewUserRepository(db),
		Addresses: postgres.NewAddressRepository(db),
		Cards:     postgres.NewCardRepository(db),
		Ledger:    postgres.NewLedgerRepository(db),
		Products:  redisdoc.NewProductRepository(rdb),
		Orders:    redisdoc.NewOrderRepository(rdb),
	}
	return store, closeAll(db, rdb.Close), nil
}

func closeAll(db *sql.DB, closeRedis func() error) func() {
	return func() {
		if err := closeRedis(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}

// buildSinks creates the analytics sinks that are configured. A sink that
// cannot be reached at startup is logged and left out.
func buildSinks(cfg config.AnalyticsConfig) ([]analytics.Sink, func()) {
	var sinks []analytics.Sink
	var closers []func() error

	switch cfg.StreamDriver {
	case config.StreamKafka:
		if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic != "" {
			sink := analytics.NewKafkaSink(analytics.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
			sinks = append(sinks, sink)
			closers = append(closers, sink.Close)
		}
	case config.StreamRabbitMQ:
		if cfg.AMQPURL != "" {
			conn, ch, err := analytics.DialRabbitMQ(cfg.AMQPURL, cfg.AMQPExchange)
			if err != nil {
				log.Printf("[ANALYTICS] RabbitMQ sink disabled: %v", err)
				break
			}
			sinks = append(sinks, analytics.NewRabbitMQSink(ch, cfg.AMQPExchange, cfg.AMQPRoutingKey))
			closers = append(closers, ch.Close, conn.Close)
		}
	}

	if cfg.BIPushURL != "" {
		sinks = append(sinks, analytics.NewBISink(cfg.BIPushURL, &http.Client{Timeout: cfg.Timeout}))
	}

	return sinks, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("[ANALYTICS] Failed to close sink: %v", err)
			}
		}
	}
}
