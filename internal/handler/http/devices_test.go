package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/device-sync/internal/service"
	"github.com/MKhiriev/device-sync/internal/store"
	"github.com/MKhiriev/device-sync/internal/validators"
	"github.com/MKhiriev/device-sync/models"
)

func TestRegisterDevice(t *testing.T) {
	validBody := models.RegisterDeviceRequest{
		DeviceID:   "laptop-1",
		DeviceType: models.DeviceTypeLaptop,
		Metadata:   models.DeviceMetadata{DeviceName: "work laptop"},
	}

	tests := []struct {
		name       string
		body       any
		device     models.Device
		err        error
		callsSvc   bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "registered",
			body:       validBody,
			device:     models.Device{DeviceID: "laptop-1", Priority: 80},
			callsSvc:   true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "owned by another user",
			body:       validBody,
			err:        fmt.Errorf("%w: %w", service.ErrDeviceOwnedByAnotherUser, store.ErrDeviceOwnedByAnotherUser),
			callsSvc:   true,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "validation",
			body:       validBody,
			err:        fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrInvalidDeviceType),
			callsSvc:   true,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid device type",
		},
		{
			name:       "storage details are hidden",
			body:       validBody,
			err:        fmt.Errorf("%w: %w", service.ErrStorage, store.ErrExecutingStatement),
			callsSvc:   true,
			wantStatus: http.StatusInternalServerError,
			wantBody:   http.StatusText(http.StatusInternalServerError),
		},
		{
			name:       "malformed json",
			body:       `{"device_id":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, m := newRouter(t)
			if tt.callsSvc {
				m.devices.EXPECT().
					RegisterDevice(gomock.Any(), testUserID, validBody).
					Return(tt.device, tt.err)
			}

			rr := serve(router, http.MethodPost, "/api/devices", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rr.Body.String(), "statement")
			}
			if tt.wantStatus == http.StatusOK {
				got := decodeBody[models.RegisterDeviceResponse](t, rr)
				assert.Equal(t, models.RegisterDeviceResponse{
					DeviceID: "laptop-1",
					Priority: 80,
					Status:   models.DeviceStatusRegistered,
				}, got)
			}
		})
	}
}

func TestListDevices(t *testing.T) {
	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("keeps service order", func(t *testing.T) {
		router, _, m := newRouter(t)
		m.devices.EXPECT().GetUserDevices(gomock.Any(), testUserID).Return([]models.Device{
			{DeviceID: "phone-1", DeviceType: models.DeviceTypePhone, Priority: 40, LastSeen: seen, IsActive: true, PushToken: "secret"},
			{DeviceID: "desktop-1", DeviceType: models.DeviceTypeDesktop, Priority: 100, LastSeen: seen.Add(-time.Hour), IsActive: true},
		}, nil)

		rr := serve(router, http.MethodGet, "/api/devices", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret")
		got := decodeBody[[]models.DeviceListItem](t, rr)
		assert.Equal(t, []models.DeviceListItem{
			{DeviceID: "phone-1", DeviceType: models.DeviceTypePhone, Priority: 40, LastSeen: seen, IsActive: true},
			{DeviceID: "desktop-1", DeviceType: models.DeviceTypeDesktop, Priority: 100, LastSeen: seen.Add(-time.Hour), IsActive: true},
		}, got)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		router, _, m := newRouter(t)
		m.devices.EXPECT().GetUserDevices(gomock.Any(), testUserID).Return(nil, nil)

		rr := serve(router, http.MethodGet, "/api/devices", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		router, _, m := newRouter(t)
		m.devices.EXPECT().GetUserDevices(gomock.Any(), testUserID).Return(nil, service.ErrStorage)

		rr := serve(router, http.MethodGet, "/api/devices", nil)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestDeactivateDevice(t *testing.T) {
	tests := []struct {
		name        string
		deactivated bool
		err         error
		wantStatus  int
		wantBody    string
	}{
		{name: "deactivated", deactivated: true, wantStatus: http.StatusOK, wantBody: `{"deactivated":true}`},
		{name: "unknown device", deactivated: false, wantStatus: http.StatusOK, wantBody: `{"deactivated":false}`},
		{name: "storage failure", err: service.ErrStorage, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, m := newRouter(t)
			m.devices.EXPECT().
				DeactivateDevice(gomock.Any(), testUserID, "phone-1").
				Return(tt.deactivated, tt.err)

			rr := serve(router, http.MethodDelete, "/api/devices/phone-1", nil)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}
