package config

import (
	"time"

	"github.com/MKhiriev/device-sync/models"
)

func defaults() *StructuredConfig {
	priorities := models.DefaultDevicePriorities()

	return &StructuredConfig{
		App: App{
			TokenIssuer: "device-sync",
			LogLevel:    "debug",
		},
		Storage: Storage{
			DB: DB{
				Driver: DriverPostgres,
			},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Devices: Devices{
			DesktopPriority:  priorities.Desktop,
			LaptopPriority:   priorities.Laptop,
			TabletPriority:   priorities.Tablet,
			PhonePriority:    priorities.Phone,
			FallbackPriority: priorities.Fallback,
		},
		Sync: Sync{
			MaxCommitAttempts: 3,
		},
		Notify: Notify{
			SendBuffer:  32,
			QueueSize:   256,
			Workers:     2,
			FCMEndpoint: "https://fcm.googleapis.com",
			PushTimeout: 10 * time.Second,
		},
		Telemetry: Telemetry{
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "device-sync",
			Environment:  "development",
		},
	}
}
