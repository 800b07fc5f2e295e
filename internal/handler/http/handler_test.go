package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/mock"
	"github.com/MKhiriev/device-sync/internal/notify"
	"github.com/MKhiriev/device-sync/internal/service"
	"github.com/MKhiriev/device-sync/internal/utils"
	"github.com/MKhiriev/device-sync/models"
)

const (
	testUserID   = "user-1"
	testToken    = "valid-token"
	testHashKey  = "test-hash-key"
	bearerHeader = "Bearer " + testToken
)

type testMocks struct {
	auth    *mock.MockAuthService
	devices *mock.MockDeviceRegistry
	sync    *mock.MockSyncService
	appInfo *mock.MockAppInfoService
}

func newTestHandler(t *testing.T) (*Handler, *testMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &testMocks{
		auth:    mock.NewMockAuthService(ctrl),
		devices: mock.NewMockDeviceRegistry(ctrl),
		sync:    mock.NewMockSyncService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}
	m.auth.EXPECT().
		ParseToken(gomock.Any(), testToken).
		Return(models.Token{UserID: testUserID}, nil).
		AnyTimes()

	h := NewHandler(&service.Services{
		AuthService:    m.auth,
		DeviceRegistry: m.devices,
		SyncService:    m.sync,
		AppInfoService: m.appInfo,
	}, notify.NewHub(4, logger.Nop()),
		config.Server{RequestTimeout: 5 * time.Second},
		config.App{HashKey: testHashKey},
		logger.Nop())

	return h, m
}

func newRouter(t *testing.T) (*chi.Mux, *Handler, *testMocks) {
	t.Helper()
	h, m := newTestHandler(t)
	return h.Init(), h, m
}

// serve sends an authenticated request with a JSON body to router.
func serve(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", bearerHeader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func signature(body []byte) string {
	return utils.HashHex(body)
}
