package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolPulse/internal/admin"
	"poolPulse/internal/cache"
	"poolPulse/internal/chain"
	"poolPulse/internal/config"
	"poolPulse/internal/gateway"
	"poolPulse/internal/health"
	"poolPulse/internal/metrics"
	"poolPulse/internal/store"
	"poolPulse/internal/watchdog"
)

func main() {
	root := &cobra.Command{
		Use:          "relay",
		Short:        "AMM pool relay gateway",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay server",
		RunE:  runServe,
	}

	serveCmd.Flags().String("rpc", "", "Solana RPC URL")
	serveCmd.Flags().String("program-id", "", "AMM program id (base58)")
	serveCmd.Flags().StringSlice("pool", nil, "pool spec NAME:TOKEN_A:TOKEN_B:KIND (repeatable)")
	serveCmd.Flags().Duration("poll-interval", 3*time.Second, "pool polling interval")
	serveCmd.Flags().Duration("broadcast-interval", 5*time.Second, "client broadcast interval")
	serveCmd.Flags().Duration("fetch-timeout", 2*time.Second, "per-account RPC timeout")
	serveCmd.Flags().Duration("cache-ttl", 5*time.Second, "pool snapshot cache TTL")
	serveCmd.Flags().Int("max-failures", 3, "failed rounds before transactions lock")
	serveCmd.Flags().Int("max-downtime", 20, "failed rounds before the upstream is marked down")
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN for the profile store (optional)")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)
	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pools, err := cfg.Identities()
	if err != nil {
		return err
	}
	programID, err := chain.ParsePublicKey(cfg.ProgramID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient := chain.NewClient(cfg.RPCURL, cfg.FetchTimeout)
	reader := chain.NewReader(chainClient, programID, logger)
	poolCache := cache.NewPoolCache(cfg.CacheTTL)

	healthState, err := health.New(health.Config{
		MaxFailures: cfg.MaxFailures,
		MaxDowntime: cfg.MaxDowntime,
	}, logger)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	dog, err := watchdog.New(watchdog.Config{
		Pools:        pools,
		PollInterval: cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
	}, reader, poolCache, healthState, m, logger)
	if err != nil {
		return err
	}

	var users gateway.UserStore
	if cfg.PGDSN != "" {
		pgStore, err := store.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer pgStore.Close()
		users = pgStore
	} else {
		logger.Info("profile store disabled, no pg-dsn configured")
	}

	hub := gateway.NewHub(gateway.Config{
		BroadcastInterval: cfg.BroadcastInterval,
	}, dog, poolCache, chainClient, users, m, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	admin.NewHandler(dog, logger).Register(mux)

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go dog.Run(ctx)
	go hub.Run(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("relay start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("program_id", cfg.ProgramID),
		zap.Int("pools", len(pools)),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("broadcast_interval", cfg.BroadcastInterval),
		zap.String("listen", cfg.Listen),
		zap.Bool("profile_store", users != nil),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
