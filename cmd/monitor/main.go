package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"transferwatch/internal/account"
	"transferwatch/internal/chain"
	"transferwatch/internal/config"
	"transferwatch/internal/memo"
	"transferwatch/internal/monitor"
	"transferwatch/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "monitor",
		Short:        "Account transfer monitor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Listen to the chain and record transfers",
		RunE:  runMonitor,
	}

	runCmd.Flags().String("node", "", "node websocket URL")
	runCmd.Flags().String("account-id", "", "monitored account id (e.g. 1.2.12345)")
	runCmd.Flags().String("account-name", "", "monitored account name, verified against the id at startup")
	runCmd.Flags().String("watch-mode", "irreversible", "chain tip to follow (head, irreversible)")
	runCmd.Flags().Uint64("start-block", 0, "first block to process, overrides the checkpoint")
	runCmd.Flags().Uint64("stop-block", 0, "last block to process, 0 means never stop")
	runCmd.Flags().String("chain-prefix", "BTS", "address prefix of the network")
	runCmd.Flags().String("memo-key", "", "WIF memo private key; memos degrade to MEMO_KEY_MISSING without it")
	runCmd.Flags().String("storage", "jsonl", "storage backend (postgres, jsonl, memory)")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	runCmd.Flags().String("out", "./data/transfers.jsonl", "events JSONL path")
	runCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	runCmd.Flags().Duration("poll-interval", 3*time.Second, "tip poll interval")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts per chain call")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("metrics-addr", "", "serve /metrics and /healthz on this address when set")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.NodeURL == "" {
		return fmt.Errorf("node url is required")
	}
	if cfg.AccountID == "" {
		return fmt.Errorf("account id is required")
	}
	if cfg.AccountName == "" {
		return fmt.Errorf("account name is required")
	}

	watchMode, err := chain.ParseWatchMode(cfg.WatchMode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.NodeURL)
	if err != nil {
		return fmt.Errorf("connect node: %w", err)
	}
	defer client.Close()

	resolver := account.NewCachedResolver(client)
	if err := account.VerifyMonitored(ctx, resolver, cfg.AccountID, cfg.AccountName); err != nil {
		return err
	}

	var decrypter memo.Decrypter = memo.NopDecrypter{}
	if cfg.MemoKey != "" {
		decrypter, err = memo.NewKeyDecrypter(cfg.MemoKey, cfg.ChainPrefix)
		if err != nil {
			return err
		}
	}

	store, err := storage.New(ctx, storage.Options{
		Backend:        cfg.Storage,
		PostgresDSN:    cfg.PostgresDSN,
		EventsPath:     cfg.EventsOut,
		CheckpointPath: cfg.CheckpointPath,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	source := &chainSource{
		client: client,
		opts: chain.StreamOptions{
			PollInterval: cfg.PollInterval,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			Logger:       logger,
		},
	}

	runner := monitor.NewRunner(monitor.RunConfig{
		StartBlock:  cfg.StartBlock,
		StopBlock:   cfg.StopBlock,
		WatchMode:   watchMode,
		ChainPrefix: cfg.ChainPrefix,
	}, source, store, monitor.TransferFilter(cfg.AccountID),
		monitor.NewEnricher(resolver, decrypter, logger), logger)

	logger.Info("monitor start",
		zap.String("node", cfg.NodeURL),
		zap.String("account_id", cfg.AccountID),
		zap.String("account_name", cfg.AccountName),
		zap.String("watch_mode", string(watchMode)),
		zap.Uint64("start_block", cfg.StartBlock),
		zap.Uint64("stop_block", cfg.StopBlock),
		zap.String("storage", cfg.Storage),
		zap.Bool("memo_key", cfg.MemoKey != ""),
	)

	return runner.Run(ctx)
}

// chainSource adapts the chain client to the monitor's Source interface.
type chainSource struct {
	client *chain.Client
	opts   chain.StreamOptions
}

func (s *chainSource) Blocks(ctx context.Context, mode chain.WatchMode, start, stop uint64) (monitor.Stream, error) {
	return s.client.Blocks(ctx, mode, start, stop, s.opts)
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
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
