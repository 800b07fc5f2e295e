package config

import (
	"time"

	"github.com/MKhiriev/device-sync/models"
)

// StructuredConfig is the top-level configuration of the device sync
// server. It is populated by merging an optional .env file, environment
// variables, command-line flags, an optional JSON file and built-in
// defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env tag lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token verification keys, the request signing key and the
	// application version.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Devices holds the priority table assigned to newly registered devices.
	Devices Devices `envPrefix:"DEVICES_"`

	// Sync holds the sync coordinator settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Notify holds the websocket hub and push delivery settings.
	Notify Notify `envPrefix:"NOTIFY_"`

	// Telemetry holds the OpenTelemetry exporter settings.
	Telemetry Telemetry `envPrefix:"TELEMETRY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG. Flags: -c, -config.
	JSONFilePath string `env:"CONFIG"`

	// EnvFilePath is the optional path to a dotenv file loaded before the
	// environment is parsed. Env: ENV_FILE.
	EnvFilePath string `env:"ENV_FILE"`
}

// App holds application-level settings.
type App struct {
	// TokenSignKey verifies the HMAC signature of bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the expected "iss" claim of bearer tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// HashKey is the HMAC key of the optional HashSHA256 request header.
	// An empty key disables the check.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is reported by the version endpoint when no linker value is set.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is the minimal zerolog level (debug, info, warn, error).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database.
type DB struct {
	// DSN is the connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Driver selects the database engine: "postgres" or "sqlite3".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Server holds inbound transport settings.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the processing time of one request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Devices is the initial priority table. Zero values are replaced by
// defaults.
type Devices struct {
	DesktopPriority  int `env:"DESKTOP_PRIORITY"`
	LaptopPriority   int `env:"LAPTOP_PRIORITY"`
	TabletPriority   int `env:"TABLET_PRIORITY"`
	PhonePriority    int `env:"PHONE_PRIORITY"`
	FallbackPriority int `env:"FALLBACK_PRIORITY"`
}

// Priorities converts the section into the table consumed by the device
// registry.
func (d Devices) Priorities() models.DevicePriorities {
	return models.DevicePriorities{
		Desktop:  d.DesktopPriority,
		Laptop:   d.LaptopPriority,
		Tablet:   d.TabletPriority,
		Phone:    d.PhonePriority,
		Fallback: d.FallbackPriority,
	}
}

// Sync holds coordinator settings.
type Sync struct {
	// MaxCommitAttempts is how many times a commit that lost a race repeats
	// the conflict check before giving up.
	// Env: SYNC_MAX_COMMIT_ATTEMPTS
	MaxCommitAttempts int `env:"MAX_COMMIT_ATTEMPTS"`
}

// Notify holds fan-out settings.
type Notify struct {
	// SendBuffer is the per-connection websocket send buffer.
	// Env: NOTIFY_SEND_BUFFER
	SendBuffer int `env:"SEND_BUFFER"`

	// QueueSize is the capacity of the push delivery queue.
	// Env: NOTIFY_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`

	// Workers is the number of push delivery workers.
	// Env: NOTIFY_WORKERS
	Workers int `env:"WORKERS"`

	// FCMProjectID enables push delivery through Firebase Cloud Messaging.
	// Env: NOTIFY_FCM_PROJECT_ID
	FCMProjectID string `env:"FCM_PROJECT_ID"`

	// FCMCredentialsFile is the service account JSON used to mint tokens.
	// Env: NOTIFY_FCM_CREDENTIALS_FILE
	FCMCredentialsFile string `env:"FCM_CREDENTIALS_FILE"`

	// FCMEndpoint is the base URL of the FCM HTTP v1 API.
	// Env: NOTIFY_FCM_ENDPOINT
	FCMEndpoint string `env:"FCM_ENDPOINT"`

	// PushTimeout bounds a single push request.
	// Env: NOTIFY_PUSH_TIMEOUT
	PushTimeout time.Duration `env:"PUSH_TIMEOUT"`
}

// FCMEnabled reports whether push delivery is configured.
func (n Notify) FCMEnabled() bool {
	return n.FCMProjectID != ""
}

// Telemetry holds OpenTelemetry settings.
type Telemetry struct {
	// Enabled turns on the OTLP exporters.
	// Env: TELEMETRY_ENABLED
	Enabled bool `env:"ENABLED"`

	// OTLPEndpoint is the collector gRPC address.
	// Env: TELEMETRY_OTLP_ENDPOINT
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`

	// ServiceName is reported as service.name.
	// Env: TELEMETRY_SERVICE_NAME
	ServiceName string `env:"SERVICE_NAME"`

	// Environment is reported as deployment.environment.
	// Env: TELEMETRY_ENVIRONMENT
	Environment string `env:"ENVIRONMENT"`
}

// GetStructuredConfig loads, merges and validates the configuration.
//
// Sources are merged with mergo, which only fills fields that are still
// zero, so precedence is: environment (including the dotenv file), then
// flags, then the JSON file, then defaults.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
