package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"app": {
			"token_sign_key": "jwt_secret",
			"token_issuer": "test_issuer",
			"hash_key": "security_hash",
			"version": "2.0.0",
			"log_level": "info"
		},
		"server": {
			"http_address": "localhost:8080",
			"request_timeout": "30s",
			"shutdown_timeout": 1000000000
		},
		"storage": {
			"db": { "dsn": "file:sync.db", "driver": "sqlite3" }
		},
		"device_priorities": {
			"desktop": 110, "laptop": 85, "tablet": 65, "phone": 45, "fallback": 55
		},
		"sync": { "max_commit_attempts": 2 },
		"notify": {
			"send_buffer": 8,
			"queue_size": 100,
			"workers": 4,
			"fcm_project_id": "proj",
			"fcm_credentials_file": "/etc/fcm.json",
			"push_timeout": "3s"
		},
		"telemetry": { "enabled": true, "otlp_endpoint": "otel:4317" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, "security_hash", cfg.App.HashKey)
	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "info", cfg.App.LogLevel)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "file:sync.db", cfg.Storage.DB.DSN)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)

	assert.Equal(t, 110, cfg.Devices.DesktopPriority)
	assert.Equal(t, 55, cfg.Devices.FallbackPriority)
	assert.Equal(t, 2, cfg.Sync.MaxCommitAttempts)

	assert.Equal(t, 8, cfg.Notify.SendBuffer)
	assert.Equal(t, 100, cfg.Notify.QueueSize)
	assert.Equal(t, 4, cfg.Notify.Workers)
	assert.Equal(t, "proj", cfg.Notify.FCMProjectID)
	assert.Equal(t, 3*time.Second, cfg.Notify.PushTimeout)

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "otel:4317", cfg.Telemetry.OTLPEndpoint)

	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"app": `), 0o600))

	badDuration := filepath.Join(dir, "duration.json")
	require.NoError(t, os.WriteFile(badDuration, []byte(`{"server": {"request_timeout": "soon"}}`), 0o600))

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json"), wantMsg: "error reading a json file"},
		{name: "malformed json", path: badJSON, wantMsg: "error decoding json configs"},
		{name: "malformed duration", path: badDuration, wantMsg: "error decoding json configs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseJSON(tt.path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDuration_JSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"1m30s"`, want: 90 * time.Second},
		{name: "nanoseconds", input: `1500`, want: 1500},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}

	out, err := json.Marshal(Duration(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
}
