package config

import (
	"flag"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// ClientConfig holds the settings of the command line client.
type ClientConfig struct {
	// ServerAddress is the sync server, as host:port or a full URL.
	// Env: SYNC_SERVER_ADDRESS. Flag: -s.
	ServerAddress string `env:"SYNC_SERVER_ADDRESS"`

	// Token is the bearer token sent with every authenticated request.
	// Env: SYNC_TOKEN. Flag: -token.
	Token string `env:"SYNC_TOKEN"`

	// HashKey signs request bodies when set. It must match the server's
	// APP_HASH_KEY.
	// Env: SYNC_HASH_KEY. Flag: -hash-key.
	HashKey string `env:"SYNC_HASH_KEY"`

	// RequestTimeout bounds each request.
	// Env: SYNC_REQUEST_TIMEOUT. Flag: -timeout.
	RequestTimeout time.Duration `env:"SYNC_REQUEST_TIMEOUT"`

	// Env: SYNC_LOG_LEVEL. Flag: -log-level.
	LogLevel string `env:"SYNC_LOG_LEVEL"`
}

func clientDefaults() *ClientConfig {
	return &ClientConfig{
		ServerAddress:  "localhost:8080",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "warn",
	}
}

// GetClientConfig merges environment, flags from args and defaults, in that
// order of precedence. The arguments left after the flags are returned as
// the command to run.
func GetClientConfig(args []string) (*ClientConfig, []string, error) {
	envCfg := new(ClientConfig)
	if err := parseEnv(envCfg); err != nil {
		return nil, nil, err
	}

	flagCfg, rest, err := parseClientFlags(args)
	if err != nil {
		return nil, nil, err
	}

	cfg := new(ClientConfig)
	for _, src := range []*ClientConfig{envCfg, flagCfg, clientDefaults()} {
		if err = mergo.Merge(cfg, src); err != nil {
			return nil, nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err = cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func parseClientFlags(args []string) (*ClientConfig, []string, error) {
	fs := flag.NewFlagSet("device-sync-client", flag.ContinueOnError)

	cfg := new(ClientConfig)
	fs.StringVar(&cfg.ServerAddress, "s", "", "Sync server address")
	fs.StringVar(&cfg.Token, "token", "", "Bearer token")
	fs.StringVar(&cfg.HashKey, "hash-key", "", "Request signing key")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", 0, "Request timeout (e.g., 5s)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}
	return cfg, fs.Args(), nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidClientConfigs)
	}
	return nil
}
