package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		stop()
		log.WithError(err).Fatal("storefront failed")
	}
	log.Info("server exited")
}

// run serves until ctx is cancelled. Every resource it opens is released
// before it returns, including on error.
func run(ctx context.Context, cfg *Config, log logrus.FieldLogger) error {
	policy, err := store.ParseQuantityPolicy(cfg.NonPositiveQuantity)
	if err != nil {
		return fmt.Errorf("invalid CART_NONPOSITIVE_QUANTITY: %w", err)
	}

	st, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStorage()

	feed := notify.NewRecorder(cfg.NotificationFeedLength)
	notifiers := notify.Fanout{notify.NewLogNotifier(log), feed}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(log, cfg.KafkaTopic, cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifiers = append(notifiers, kafkaNotifier)
		log.WithField("topic", cfg.KafkaTopic).Info("publishing cart notifications to kafka")
	}

	cart, err := store.Open(ctx, st, notifiers,
		store.WithKey(cfg.CartKey),
		store.WithQuantityPolicy(policy),
		store.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	log.WithFields(logrus.Fields{
		"items":  len(cart.Items()),
		"policy": policy.String(),
	}).Info("cart loaded")

	products := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, log)

	router := h.NewRouter(h.RouterConfig{
		Cart:          h.NewCartHandler(cart, products, h.NewCooldown(cfg.AddToCartCooldown), log),
		Products:      h.NewProductHandler(products),
		Notifications: h.NewNotificationHandler(feed),
		Log:           log,
		Timeout:       cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// openStorage connects the configured backend and returns a func that
// releases it.
func openStorage(ctx context.Context, cfg *Config, log logrus.FieldLogger) (storage.Storage, func(), error) {
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := storage.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("using sqlite storage")
		return db, func() { db.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("using redis storage")
		return storage.NewRedis(client, cfg.RedisTTL), func() { client.Close() }, nil

	case "mongo":
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Client().Disconnect(disconnectCtx); err != nil {
				log.WithError(err).Warn("mongo disconnect failed")
			}
		}
		m := storage.NewMongo(db)
		if err := m.CreateIndexes(ctx, cfg.MongoTTL); err != nil {
			closeFn()
			return nil, nil, err
		}
		log.WithField("database", cfg.MongoDBName).Info("using mongo storage")
		return m, closeFn, nil

	case "memory":
		log.Warn("using in-memory storage, cart will not survive restarts")
		return storage.NewMemory(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
