// Command server runs the e-school HTTP API.
//
//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs
//
// @title                       E-School API
// @version                     1.0
// @description                 Signup, login, course catalogue and enrollment for the e-school platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eschool/eschool-api/internal/api"
	"github.com/eschool/eschool-api/internal/core/service"
	mongodb "github.com/eschool/eschool-api/internal/infrastructure/db/mongo"
	redisdb "github.com/eschool/eschool-api/internal/infrastructure/db/redis"
	"github.com/eschool/eschool-api/internal/infrastructure/http/handlers"
	"github.com/eschool/eschool-api/internal/infrastructure/queue"
	"github.com/eschool/eschool-api/internal/pkg/config"
	"github.com/eschool/eschool-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "eschool-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	health := map[string]handlers.Pinger{"mongodb": handlers.MongoPinger(mongoClient)}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		health["redis"] = handlers.RedisPinger(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, mongodb.NewEventRepository(db), logger.Component("audit"))
	dispatcher.Start(ctx)

	// --- Core services ---
	users := mongodb.NewUserRepository(db)
	tokens := service.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authOpts := []service.AuthOption{service.WithAuditRecorder(dispatcher)}
	if rdb != nil {
		authOpts = append(authOpts, service.WithLoginThrottle(
			redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout),
		))
	}
	if cfg.Auth.InstructorKey == "" {
		log.Warn().Msg("INSTRUCTOR_KEY not set, instructor signup disabled")
	}
	if cfg.Auth.AdminKey == "" {
		log.Warn().Msg("ADMIN_KEY not set, admin signup disabled")
	}

	authService := service.NewAuthService(
		users,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		service.AuthConfig{
			InstructorKey:      cfg.Auth.InstructorKey,
			AdminKey:           cfg.Auth.AdminKey,
			RejectUnknownRoles: cfg.Auth.RejectUnknownRoles,
		},
		logger.Component("auth"),
		authOpts...,
	)
	courseService := service.NewCourseService(mongodb.NewCourseRepository(db), users, dispatcher, logger.Component("courses"))
	bookService := service.NewBookService(mongodb.NewBookRepository(db), logger.Component("books"))

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Logger:         logger.Component("http"),
		AllowedOrigins: cfg.AllowedOrigins,
		Health:         health,
		AuthService:    authService,
		CourseService:  courseService,
		BookService:    bookService,
		TokenVerifier:  tokens,
		EnableSwagger:  !cfg.IsProduction(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
