package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/notify"
	"github.com/MKhiriev/device-sync/internal/service"
)

func TestNewHandlers(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
	}{
		{name: "http address set", address: ":8080"},
		{name: "no address", wantErr: errNoHandlersAreCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.StructuredConfig{Server: config.Server{HTTPAddress: tt.address}}

			h, err := NewHandlers(&service.Services{}, notify.NewHub(1, logger.Nop()), cfg, logger.Nop())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, h)
			assert.NotNil(t, h.HTTP)
		})
	}
}
