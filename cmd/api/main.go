// @title        GoFix API
// @version      1.0
// @description  Marketplace backend connecting service providers with seekers.

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/gofix/gofix-api/docs"
	"github.com/gofix/gofix-api/internal/api"
	"github.com/gofix/gofix-api/internal/api/handler"
	"github.com/gofix/gofix-api/internal/api/metrics"
	"github.com/gofix/gofix-api/internal/core/service"
	"github.com/gofix/gofix-api/internal/infrastructure/config"
	mongodb "github.com/gofix/gofix-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gofix/gofix-api/internal/infrastructure/db/redis"
	"github.com/gofix/gofix-api/internal/infrastructure/mail"
	"github.com/gofix/gofix-api/internal/infrastructure/queue"
	"github.com/gofix/gofix-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gofix-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "gofix-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MinPoolSize: cfg.Mongo.MinPoolSize,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer disconnectMongo(mongoClient, log)

	// Redis only backs the rate limiter, which fails open. Start without it
	// and let the client reconnect once it is reachable.
	rdb := redisdb.NewClient(redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err := redisdb.Ping(ctx, rdb); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, rate limiting disabled until it recovers")
	}
	defer rdb.Close()

	accounts := mongodb.NewAccountRepository(db)
	services := mongodb.NewServiceRepository(db)
	uploads := mongodb.NewUploadStore(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}
	if err := services.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("service indexes: %w", err)
	}

	// --- Mail ---
	mailLog := logger.Component("mail")
	var transport mail.Transport
	if cfg.Mail.SMTPEnabled() {
		transport = mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.AppPassword,
		})
	} else {
		mailLog.Warn().Msg("EMAIL_USER or EMAIL_APP_PASSWORD not set, emails will only be logged")
		transport = mail.NewLogTransport(mailLog)
	}

	dispatcher := queue.NewDispatcher(mail.NewMailer(transport, mailLog), queue.Options{
		Size: cfg.Mail.QueueSize,
		OnResult: func(job queue.Job, err error) {
			metrics.ObserveEmail(job.Kind, err)
		},
	}, logger.Component("queue"))
	metrics.RegisterMailQueueDepth(dispatcher.Len)
	// The worker outlives the signal so Stop can drain what is queued.
	dispatcher.Start(context.WithoutCancel(ctx))

	notifier := mail.NewNotifier(meteredQueue{dispatcher}, cfg.Mail.AdminEmail, cfg.AppBaseURL, mailLog)

	// --- Use cases ---
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(accounts, tokens, notifier, logger.Component("auth"))
	accountService := service.NewAccountService(accounts, services, logger.Component("accounts"))
	catalogService := service.NewCatalogService(services, logger.Component("catalog"))
	uploadService := service.NewUploadService(uploads, cfg.UploadMaxBytes, logger.Component("uploads"))

	// --- HTTP ---
	e := api.NewRouter(api.Options{
		CORSOrigin:  cfg.CORSOrigin,
		Development: cfg.IsDevelopment(),
		BodyLimit:   bodyLimit(cfg.UploadMaxBytes),
		TokenTTL:    tokens.TTL(),
	}, api.Deps{
		Auth:          authService,
		Accounts:      accountService,
		Catalog:       catalogService,
		Uploads:       uploadService,
		Notifier:      notifier,
		Verifier:      tokens,
		AccountLookup: accounts,
		RateLimiter:   redisdb.NewFixedWindowLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window),
		HealthChecks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}, logger.Component("http"))

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Int("pending", dispatcher.Len()).Msg("mail queue not drained")
	}
	log.Info().Msg("server stopped")
	return nil
}

// meteredQueue counts emails dropped because the queue refused them.
type meteredQueue struct {
	*queue.Dispatcher
}

func (q meteredQueue) Enqueue(job queue.Job) error {
	err := q.Dispatcher.Enqueue(job)
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(job.Kind, "dropped").Inc()
	}
	return err
}

func disconnectMongo(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}

// bodyLimit leaves headroom above the upload ceiling for multipart framing.
func bodyLimit(uploadMax int64) string {
	kb := uploadMax/1024 + 512
	return strconv.FormatInt(kb, 10) + "K"
}
