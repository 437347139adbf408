package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/catalog"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	httpapi "github.com/fairyhunter13/coffee-maker-simulator/internal/http"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/machine"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/publish"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/queue"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/store"
)

type eventPublisher interface {
	queue.Publisher
	Close() error
}

type stateStore interface {
	machine.StateStore
	Close() error
}

func serveCmd() *cobra.Command {
	var addr, recipes, stateDB, kafkaBroker string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if recipes != "" {
				cfg.RecipesFile = recipes
			}
			if stateDB != "" {
				cfg.StateDB = stateDB
			}
			if kafkaBroker != "" {
				cfg.KafkaBroker = kafkaBroker
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default HTTP_ADDR or :8080)")
	cmd.Flags().StringVar(&recipes, "recipes", "", "YAML catalog used when no saved state exists")
	cmd.Flags().StringVar(&stateDB, "state-db", "", "SQLite file for machine state")
	cmd.Flags().StringVar(&kafkaBroker, "kafka-broker", "", "Kafka broker for purchase events")
	return cmd
}

func openStore(cfg config.Config) (stateStore, error) {
	if cfg.StateDB == "" {
		return memoryStore{store.New()}, nil
	}
	return store.OpenSQLite(cfg.StateDB)
}

type memoryStore struct{ *store.Memory }

func (memoryStore) Close() error { return nil }

func openPublisher(cfg config.Config, tp trace.TracerProvider) (eventPublisher, error) {
	if cfg.KafkaBroker == "" {
		return publish.Log{}, nil
	}
	return publish.DialKafka(cfg, tp)
}

// prepare restores saved state or, failing that, seeds from the catalog.
func prepare(ctx context.Context, cfg config.Config, svc *machine.Service) error {
	restored, err := svc.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	if restored || cfg.RecipesFile == "" {
		return nil
	}
	c, err := catalog.Load(cfg.RecipesFile)
	if err != nil {
		return err
	}
	return svc.Seed(ctx, c)
}

func runServe(ctx context.Context, cfg config.Config) error {
	obs.Logger.Info("service_starting", "version", config.ServiceVersion)

	tp, shutdownTracing, err := obs.SetupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			obs.Logger.Error("tracing_shutdown_error", "error", err.Error())
		}
	}()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	pub, err := openPublisher(cfg, tp)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			obs.Logger.Error("publisher_close_error", "error", err.Error())
		}
	}()

	mgr := queue.NewManager(cfg, queue.New(128), pub)
	svc := machine.New(st, mgr, tp)
	if err := prepare(ctx, cfg, svc); err != nil {
		return err
	}

	mctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(mctx)

	app := httpapi.NewApp(cfg, svc, mgr)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		obs.Logger.Info("shutdown_signal")
	case serveErr = <-errc:
		obs.Logger.Error("http_server_error", "error", serveErr.Error())
	}

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err.Error())
	}
	mgr.Stop()
	obs.Logger.Info("service_stopped")
	return serveErr
}
