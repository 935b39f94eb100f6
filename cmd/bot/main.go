// Command bot runs the booking assistant: the webhook HTTP server, the
// database migrations, and the daily operator digest scheduler.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/elevatehq/go-booking-bot/internal/config"
	httpapi "github.com/elevatehq/go-booking-bot/internal/http"
	"github.com/elevatehq/go-booking-bot/internal/observability"
	"github.com/elevatehq/go-booking-bot/internal/repo"
	"github.com/elevatehq/go-booking-bot/internal/sysutil"
)

var version = "dev"

func main() {
	// A missing .env is fine in production; the environment is already set.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	gin.SetMode(cfg.GinMode)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	shutdownTracing, err := observability.Setup(context.Background(), cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	deps := httpapi.BuildDeps(db, loc, cfg)

	engine := gin.New()
	httpapi.RegisterRoutes(engine, cfg, deps)

	scheduler := startDigestScheduler(deps, loc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn().Err(err).Msg("tracing shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// startDigestScheduler mails the operator a daily summary at 08:00 local
// time. It is skipped when mail delivery is disabled.
func startDigestScheduler(deps httpapi.Deps, loc *time.Location) *cron.Cron {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc("0 8 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		body, err := deps.Stats.DigestBody(ctx, time.Now().In(loc))
		if err != nil {
			log.Error().Err(err).Msg("digest build failed")
			return
		}
		if err := deps.Mailer.Send(deps.Operator, "Daily digest", body); err != nil {
			log.Warn().Err(err).Msg("digest delivery failed")
			return
		}
		log.Info().Str("to", deps.Operator).Msg("daily digest sent")
	})
	if err != nil {
		log.Error().Err(err).Msg("digest schedule registration failed")
		return nil
	}
	c.Start()
	return c
}
