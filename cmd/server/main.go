package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"patientbot/internal/bot"
	"patientbot/internal/intent"
	"patientbot/internal/observation"
	"patientbot/internal/patient/recordstore"
	"patientbot/internal/platform/config"
	"patientbot/internal/platform/fhirauth"
	"patientbot/internal/platform/httpserver"
	"patientbot/internal/platform/logger"
	"patientbot/internal/platform/metrics"
	redisclient "patientbot/internal/platform/redis"
	"patientbot/internal/session/store"
	httptransport "patientbot/internal/transport/http"
	"patientbot/internal/workflow"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

// sessionStore is what the collection workflow and the bot need from session storage.
type sessionStore interface {
	workflow.StateStore
	workflow.ProfileStore
	bot.ProfileReader
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)
	g, ctx := errgroup.WithContext(ctx)

	redis, err := redisclient.New(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}

	var (
		sessions sessionStore
		health   httptransport.HealthChecker
	)
	if redis != nil {
		defer redis.Close()
		sessions = store.NewRedis(redis.Client, cfg.SessionTTL)
		health = redis
		log.Info("using redis session store")
	} else {
		memory := store.NewInMemory(cfg.SessionTTL)
		sessions = memory
		g.Go(func() error {
			sweep(ctx, memory, log)
			return nil
		})
		log.Info("using in-memory session store")
	}

	records := recordstore.New(cfg.RecordStore.URL, cfg.RecordStore.Timeout,
		recordstore.WithInsecureTLS(cfg.RecordStore.InsecureTLS),
		recordstore.WithObserver(m),
		recordstore.WithLogger(log),
	)
	log.Info("fhir auth configured", "mode", string(fhirauth.ModeFor(cfg.FHIRAuth)))
	fetcher := observation.NewClient(cfg.Observation.URL, cfg.Observation.FHIRBaseURL, cfg.Observation.Timeout,
		fhirauth.NewTokenSource(ctx, cfg.FHIRAuth),
		observation.WithObserver(m),
		observation.WithLogger(log),
	)

	var recognizer bot.Recognizer
	if cfg.Recognizer.AppID != "" {
		recognizer = intent.NewPredictionClient(cfg.Recognizer, intent.WithObserver(m))
		log.Info("using hosted intent recognizer")
	} else {
		recognizer = intent.NewKeywordRecognizer()
		log.Info("using keyword intent recognizer")
	}

	collector := workflow.New(sessions, sessions, records,
		workflow.WithLogger(log),
		workflow.WithMetrics(m),
	)
	service := bot.New(sessions, collector, recognizer, observation.NewDispatcher(fetcher, log),
		bot.WithLogger(log),
		bot.WithMetrics(m),
	)

	router := httptransport.NewRouter(httptransport.NewHandler(service, log), httptransport.RouterConfig{
		Gatherer: prometheus.DefaultGatherer,
		Health:   health,
		Logger:   log,
	})
	srv := httpserver.New(cfg.Addr, router, log)

	g.Go(func() error {
		log.Info("starting patientbot", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// sweep drops expired in-memory sessions until ctx is done.
func sweep(ctx context.Context, s *store.InMemoryStore, log *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				log.Debug("swept expired sessions", "count", n)
			}
		}
	}
}
