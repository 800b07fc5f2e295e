package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/utils"
	"github.com/MKhiriev/device-sync/models"
)

const hashHeader = "HashSHA256"

type httpSyncClient struct {
	client *utils.HTTPClient

	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPSyncClient returns a [SyncClient] for the server at address. A bare
// host:port is treated as http. When hashKey is set every request body is
// signed with HMAC-SHA256 in the HashSHA256 header.
func NewHTTPSyncClient(address string, timeout time.Duration, hashKey string, log *logger.Logger) (SyncClient, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	return &httpSyncClient{
		client:  utils.NewHTTPClient(baseURL, timeout),
		hashKey: hashKey,
		logger:  log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpSyncClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpSyncClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// RegisterDevice implements [SyncClient]. POST /api/devices.
func (h *httpSyncClient) RegisterDevice(ctx context.Context, req models.RegisterDeviceRequest) (models.RegisterDeviceResponse, error) {
	var out models.RegisterDeviceResponse

	r, err := h.jsonRequest(ctx, req)
	if err != nil {
		return out, err
	}
	resp, err := r.SetResult(&out).Post("/api/devices")
	if err != nil {
		return out, fmt.Errorf("register device request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RegisterDeviceResponse{}, err
	}

	return out, nil
}

// ListDevices implements [SyncClient]. GET /api/devices.
func (h *httpSyncClient) ListDevices(ctx context.Context) ([]models.DeviceListItem, error) {
	resp, err := h.authedRequest(ctx).Get("/api/devices")
	if err != nil {
		return nil, fmt.Errorf("list devices request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.DeviceListItem
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return items, nil
}

// DeactivateDevice implements [SyncClient]. A 404 is reported as false with
// no error.
func (h *httpSyncClient) DeactivateDevice(ctx context.Context, deviceID string) (bool, error) {
	var out models.DeactivateDeviceResponse

	resp, err := h.authedRequest(ctx).
		SetPathParam("device_id", deviceID).
		SetResult(&out).
		Delete("/api/devices/{device_id}")
	if err != nil {
		return false, fmt.Errorf("deactivate device request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	return out.Deactivated, nil
}

// Sync implements [SyncClient]. POST /api/sync.
func (h *httpSyncClient) Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	return h.postSync(ctx, "/api/sync", req)
}

// SyncVoice implements [SyncClient]. POST /api/sync/voice.
func (h *httpSyncClient) SyncVoice(ctx context.Context, req models.VoiceSyncRequest) (models.SyncResponse, error) {
	return h.postSync(ctx, "/api/sync/voice", req)
}

// SyncBatch implements [SyncClient]. Per-item conflicts are reported inside
// the response, so only transport and request level failures are errors.
func (h *httpSyncClient) SyncBatch(ctx context.Context, req models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	var out models.BatchSyncResponse

	r, err := h.jsonRequest(ctx, req)
	if err != nil {
		return out, err
	}
	resp, err := r.SetResult(&out).Post("/api/sync/batch")
	if err != nil {
		return out, fmt.Errorf("batch sync request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BatchSyncResponse{}, err
	}

	return out, nil
}

// GetEntityStates implements [SyncClient]. GET /api/sync/{domain}/{entity_id}.
func (h *httpSyncClient) GetEntityStates(ctx context.Context, domain string, entityID uuid.UUID) (models.EntityStateResponse, error) {
	var out models.EntityStateResponse

	resp, err := h.authedRequest(ctx).
		SetPathParams(map[string]string{
			"domain":    domain,
			"entity_id": entityID.String(),
		}).
		SetResult(&out).
		Get("/api/sync/{domain}/{entity_id}")
	if err != nil {
		return out, fmt.Errorf("entity states request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntityStateResponse{}, err
	}

	return out, nil
}

// GetVersion implements [SyncClient]. The endpoint needs no token.
func (h *httpSyncClient) GetVersion(ctx context.Context) (models.BuildInfoResponse, error) {
	var out models.BuildInfoResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/version")
	if err != nil {
		return out, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BuildInfoResponse{}, err
	}

	return out, nil
}

// postSync sends a single write. 200 and 409 both carry an outcome and are
// returned without error. Other statuses return the decoded outcome, if any,
// together with the mapped sentinel.
func (h *httpSyncClient) postSync(ctx context.Context, path string, body any) (models.SyncResponse, error) {
	var out models.SyncResponse

	r, err := h.jsonRequest(ctx, body)
	if err != nil {
		return out, err
	}
	resp, err := r.Post(path)
	if err != nil {
		return out, fmt.Errorf("sync request: %w", err)
	}

	decodeErr := json.Unmarshal(resp.Body(), &out)

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusConflict:
		if decodeErr != nil {
			return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrDecodeResponse, decodeErr)
		}
		return out, nil
	}

	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Str("func", "*httpSyncClient.postSync").
			Int("status", resp.StatusCode()).
			Str("error_kind", string(out.ErrorKind)).
			Msg("sync rejected")
		return out, err
	}
	return out, fmt.Errorf("%w: http %d", ErrUnexpectedStatus, resp.StatusCode())
}

func (h *httpSyncClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// jsonRequest marshals body up front so the exact bytes on the wire can be
// signed.
func (h *httpSyncClient) jsonRequest(ctx context.Context, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if h.hashKey != "" {
		req.SetHeader(hashHeader, utils.HashString(string(payload), h.hashKey))
	}
	return req, nil
}
