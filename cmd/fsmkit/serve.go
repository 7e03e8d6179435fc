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

	"github.com/aretw0/fsmkit"
	"github.com/aretw0/fsmkit/internal/demo/vending"
	httpAdapter "github.com/aretw0/fsmkit/pkg/adapters/http"
	"github.com/aretw0/fsmkit/pkg/adapters/memory"
	"github.com/aretw0/fsmkit/pkg/adapters/process"
	redisAdapter "github.com/aretw0/fsmkit/pkg/adapters/redis"
	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/observability"
	"github.com/aretw0/fsmkit/pkg/persistence/middleware"
	"github.com/aretw0/fsmkit/pkg/ports"
	"github.com/aretw0/fsmkit/pkg/schema"
	"github.com/aretw0/fsmkit/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP session server",
	Long: `Serves sessions of a transition table over HTTP, with Prometheus metrics on /metrics.
Sessions are kept in Redis when FSMKIT_REDIS_ADDR is set, in memory otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("table") {
			cfg.Table, _ = cmd.Flags().GetString("table")
		}
		if cmd.Flags().Changed("effects") {
			cfg.Effects, _ = cmd.Flags().GetString("effects")
		}

		table, initial, err := serveTable()
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(reg)

		opts := []session.Option{
			session.WithLogger(logger),
			session.WithLockTTL(cfg.LockTTL),
			session.WithLifecycleHooks(observability.Combine(
				observability.LoggingHooks(logger),
				metrics.Hooks(),
			)),
		}

		var store ports.CheckpointStore
		if cfg.RedisAddr != "" {
			redisStore := redisAdapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
				redisAdapter.WithPrefix(cfg.RedisPrefix),
				redisAdapter.WithTTL(cfg.SessionTTL),
			)
			defer redisStore.Close()
			if err := redisStore.Client().Ping(cmd.Context()).Err(); err != nil {
				return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
			}
			store = redisStore
			opts = append(opts, session.WithLocker(redisAdapter.NewLocker(redisStore.Client(), cfg.RedisPrefix)))
			logger.Info("Using redis session store", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		} else {
			store = memory.NewStore()
			logger.Info("Using in-memory session store")
		}

		store = middleware.Chain(store,
			middleware.NewLoggingMiddleware(logger),
			middleware.NewStoreMetrics(reg).Middleware(),
		)

		mgr, err := session.NewManager(table, initial, store, opts...)
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.Handle("/", httpAdapter.NewHandler(mgr,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(fsmkit.Version),
		))

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting fsmkit server", "addr", srv.Addr, "initial", initial, "transitions", table.Len())
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("fsmkit server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (default from FSMKIT_HTTP_ADDR)")
	serveCmd.Flags().String("table", "", "Table file to serve instead of the vending machine (default from FSMKIT_TABLE)")
	serveCmd.Flags().String("effects", "", "Effects file binding effect names to commands (default from FSMKIT_EFFECTS)")
}

// serveTable returns the table to serve. The vending machine shares one
// stockroom across all sessions. Table file effects run the commands of the
// effects file, or nothing when there is none.
func serveTable() (*fsm.Table, domain.StateID, error) {
	if cfg.Table == "" {
		table, err := vending.NewTable(vending.NewStockroom(cfg.VendingStock))
		return table, vending.WaitingForMoney, err
	}
	def, err := schema.Load(cfg.Table)
	if err != nil {
		return nil, "", err
	}
	if cfg.Effects == "" {
		table, err := schema.Inspect(def)
		return table, def.Initial, err
	}

	effects, err := process.LoadEffects(cfg.Effects)
	if err != nil {
		return nil, "", err
	}
	runner := process.NewRunner(process.WithRegistry(effects))
	logger.Info("Loaded command effects", "file", cfg.Effects, "effects", runner.Names())
	table, err := schema.Build(def, runner.Registry())
	return table, def.Initial, err
}
