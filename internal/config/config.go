package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	NodeURL        string
	AccountID      string
	AccountName    string
	WatchMode      string
	StartBlock     uint64
	StopBlock      uint64
	ChainPrefix    string
	MemoKey        string
	Storage        string
	PostgresDSN    string
	EventsOut      string
	CheckpointPath string
	PollInterval   time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MetricsAddr    string
	LogLevel       string
}

// Load merges config file, MONITOR_* environment variables, and flags into
// Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("watch-mode", "irreversible")
	v.SetDefault("chain-prefix", "BTS")
	v.SetDefault("storage", "jsonl")
	v.SetDefault("out", "./data/transfers.jsonl")
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("poll-interval", 3*time.Second)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		NodeURL:        v.GetString("node"),
		AccountID:      v.GetString("account-id"),
		AccountName:    v.GetString("account-name"),
		WatchMode:      v.GetString("watch-mode"),
		StartBlock:     v.GetUint64("start-block"),
		StopBlock:      v.GetUint64("stop-block"),
		ChainPrefix:    v.GetString("chain-prefix"),
		MemoKey:        v.GetString("memo-key"),
		Storage:        v.GetString("storage"),
		PostgresDSN:    v.GetString("pg-dsn"),
		EventsOut:      v.GetString("out"),
		CheckpointPath: v.GetString("checkpoint"),
		PollInterval:   v.GetDuration("poll-interval"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		MetricsAddr:    v.GetString("metrics-addr"),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}
