package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"netpulse/internal/config"
	"netpulse/internal/domain"
	"netpulse/internal/httpapi"
	"netpulse/internal/logging"
	"netpulse/internal/notify"
	"netpulse/internal/probe"
	"netpulse/internal/registry"
	"netpulse/internal/scheduler"
	"netpulse/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	targets, err := registry.Load(cfg.TargetsFile)
	if err != nil {
		logger.Fatal("registry_load_failed", zap.Error(err))
	}
	logger.Info("registry_loaded",
		zap.String("file", cfg.TargetsFile),
		zap.Int("targets", len(targets)),
	)

	st := store.New(targets)

	observers := domain.MultiObserver{summaryLogger(logger)}
	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		observers = append(observers, notify.NewWatcher(logger, notify.Multi{slack}))
	}

	prober := probe.NewHTTPProber(cfg.SlowThreshold)
	runner := scheduler.NewCycleRunner(logger, st, prober, observers, cfg.ProbeTimeout, cfg.Concurrency)
	sched := scheduler.New(logger, runner, targets, cfg.RefreshInterval, cfg.JitterMax)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	api := httpapi.NewServer(logger, st, targets, sched)
	api.TriggerAPIKeys = cfg.TriggerAPIKeys
	api.TriggerRPM = cfg.TriggerRPM
	api.TriggerBurst = cfg.TriggerBurst

	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api_serve_failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("shutdown_complete")
}

// summaryLogger stands in for the rendering collaborator: it logs aggregate
// counts once a cycle settles (nothing left checking).
func summaryLogger(logger *zap.Logger) domain.Observer {
	return domain.ObserverFunc(func(s domain.Snapshot) {
		if s.Summary.Checking > 0 {
			return
		}
		logger.Info("status_summary",
			zap.Int("up", s.Summary.Up),
			zap.Int("up_opaque", s.Summary.UpOpaque),
			zap.Int("slow", s.Summary.Slow),
			zap.Int("down", s.Summary.Down),
		)
	})
}
