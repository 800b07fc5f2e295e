package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		HashKey      string `json:"hash_key"`
		Version      string `json:"version"`
		LogLevel     string `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN    string `json:"dsn"`
			Driver string `json:"driver"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Devices struct {
		Desktop  int `json:"desktop"`
		Laptop   int `json:"laptop"`
		Tablet   int `json:"tablet"`
		Phone    int `json:"phone"`
		Fallback int `json:"fallback"`
	} `json:"device_priorities,omitempty"`

	Sync struct {
		MaxCommitAttempts int `json:"max_commit_attempts"`
	} `json:"sync,omitempty"`

	Notify struct {
		SendBuffer         int      `json:"send_buffer"`
		QueueSize          int      `json:"queue_size"`
		Workers            int      `json:"workers"`
		FCMProjectID       string   `json:"fcm_project_id"`
		FCMCredentialsFile string   `json:"fcm_credentials_file"`
		FCMEndpoint        string   `json:"fcm_endpoint"`
		PushTimeout        Duration `json:"push_timeout"`
	} `json:"notify,omitempty"`

	Telemetry struct {
		Enabled      bool   `json:"enabled"`
		OTLPEndpoint string `json:"otlp_endpoint"`
		ServiceName  string `json:"service_name"`
		Environment  string `json:"environment"`
	} `json:"telemetry,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey: jsonCfg.App.TokenSignKey,
			TokenIssuer:  jsonCfg.App.TokenIssuer,
			HashKey:      jsonCfg.App.HashKey,
			Version:      jsonCfg.App.Version,
			LogLevel:     jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN:    jsonCfg.Storage.DB.DSN,
				Driver: jsonCfg.Storage.DB.Driver,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Devices: Devices{
			DesktopPriority:  jsonCfg.Devices.Desktop,
			LaptopPriority:   jsonCfg.Devices.Laptop,
			TabletPriority:   jsonCfg.Devices.Tablet,
			PhonePriority:    jsonCfg.Devices.Phone,
			FallbackPriority: jsonCfg.Devices.Fallback,
		},
		Sync: Sync{
			MaxCommitAttempts: jsonCfg.Sync.MaxCommitAttempts,
		},
		Notify: Notify{
			SendBuffer:         jsonCfg.Notify.SendBuffer,
			QueueSize:          jsonCfg.Notify.QueueSize,
			Workers:            jsonCfg.Notify.Workers,
			FCMProjectID:       jsonCfg.Notify.FCMProjectID,
			FCMCredentialsFile: jsonCfg.Notify.FCMCredentialsFile,
			FCMEndpoint:        jsonCfg.Notify.FCMEndpoint,
			PushTimeout:        time.Duration(jsonCfg.Notify.PushTimeout),
		},
		Telemetry: Telemetry{
			Enabled:      jsonCfg.Telemetry.Enabled,
			OTLPEndpoint: jsonCfg.Telemetry.OTLPEndpoint,
			ServiceName:  jsonCfg.Telemetry.ServiceName,
			Environment:  jsonCfg.Telemetry.Environment,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
