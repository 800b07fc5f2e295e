package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientEnvKeys = []string{
	"SYNC_SERVER_ADDRESS",
	"SYNC_TOKEN",
	"SYNC_HASH_KEY",
	"SYNC_REQUEST_TIMEOUT",
	"SYNC_LOG_LEVEL",
}

func setClientEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range clientEnvKeys {
		if old, ok := os.LookupEnv(k); ok {
			_ = os.Unsetenv(k)
			t.Cleanup(func() { _ = os.Setenv(k, old) })
		}
	}
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func TestGetClientConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		want     ClientConfig
		wantRest []string
	}{
		{
			name:     "defaults",
			args:     []string{"devices"},
			want:     *clientDefaults(),
			wantRest: []string{"devices"},
		},
		{
			name: "flags",
			args: []string{"-s", "https://sync.example.com", "-token", "t1", "-hash-key", "k", "-timeout", "3s", "register", "desk", "desktop"},
			want: ClientConfig{
				ServerAddress:  "https://sync.example.com",
				Token:          "t1",
				HashKey:        "k",
				RequestTimeout: 3 * time.Second,
				LogLevel:       "warn",
			},
			wantRest: []string{"register", "desk", "desktop"},
		},
		{
			name: "env wins over flags",
			env:  map[string]string{"SYNC_TOKEN": "from-env", "SYNC_LOG_LEVEL": "debug"},
			args: []string{"-token", "from-flag", "version"},
			want: ClientConfig{
				ServerAddress:  "localhost:8080",
				Token:          "from-env",
				RequestTimeout: 10 * time.Second,
				LogLevel:       "debug",
			},
			wantRest: []string{"version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setClientEnv(t, tt.env)

			cfg, rest, err := GetClientConfig(tt.args)

			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestGetClientConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr error
	}{
		{name: "negative timeout", args: []string{"-timeout", "-1s"}, wantErr: ErrInvalidClientConfigs},
		{name: "unknown flag", args: []string{"-d", "postgres://x"}},
		{name: "bad env duration", env: map[string]string{"SYNC_REQUEST_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setClientEnv(t, tt.env)

			cfg, _, err := GetClientConfig(tt.args)

			assert.Nil(t, cfg)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
