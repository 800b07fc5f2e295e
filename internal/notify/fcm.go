package notify

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/telemetry"
	"github.com/MKhiriev/device-sync/internal/utils"
	"github.com/MKhiriev/device-sync/models"
)

const (
	fcmScope           = "https://www.googleapis.com/auth/firebase.messaging"
	defaultFCMEndpoint = "https://fcm.googleapis.com"
	defaultQueueSize   = 256
	defaultPushWorkers = 1
)

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token   string            `json:"token"`
	Data    map[string]string `json:"data"`
	Android fcmAndroidConfig  `json:"android"`
}

type fcmAndroidConfig struct {
	Priority string `json:"priority"`
}

type pushJob struct {
	token        string
	notification models.SyncNotification
}

// NewFCMTokenSource mints OAuth2 access tokens from a service account file.
func NewFCMTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPushCredentials, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPushCredentials, err)
	}
	return creds.TokenSource, nil
}

// FCMPusher sends data messages through the FCM HTTP v1 API from a bounded
// queue drained by a fixed set of workers.
type FCMPusher struct {
	client    *utils.HTTPClient
	projectID string
	tokens    oauth2.TokenSource
	queue     chan pushJob
	workers   int
	timeout   time.Duration

	metrics *telemetry.SyncMetrics
	logger  *logger.Logger
}

// NewFCMPusher builds a pusher for cfg.FCMProjectID. tokens is wrapped in a
// reusing source so a token is only refreshed when it expires.
func NewFCMPusher(cfg config.Notify, tokens oauth2.TokenSource, metrics *telemetry.SyncMetrics, log *logger.Logger) *FCMPusher {
	endpoint := cfg.FCMEndpoint
	if endpoint == "" {
		endpoint = defaultFCMEndpoint
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultPushWorkers
	}
	if metrics == nil {
		metrics = telemetry.NopSyncMetrics()
	}

	return &FCMPusher{
		client:    utils.NewHTTPClient(endpoint, cfg.PushTimeout),
		projectID: cfg.FCMProjectID,
		tokens:    oauth2.ReuseTokenSource(nil, tokens),
		queue:     make(chan pushJob, queueSize),
		workers:   workers,
		timeout:   cfg.PushTimeout,
		metrics:   metrics,
		logger:    log,
	}
}

// Enqueue schedules a push to device. It never blocks.
func (p *FCMPusher) Enqueue(device models.Device, notification models.SyncNotification) error {
	if device.PushToken == "" {
		return ErrNoPushToken
	}

	select {
	case p.queue <- pushJob{token: device.PushToken, notification: notification}:
		return nil
	default:
		return ErrPushQueueFull
	}
}

// Send delivers one notification to the device holding token.
func (p *FCMPusher) Send(ctx context.Context, token string, notification models.SyncNotification) error {
	accessToken, err := p.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPushToken, err)
	}

	body := fcmRequest{Message: fcmMessage{
		Token:   token,
		Data:    pushData(notification),
		Android: fcmAndroidConfig{Priority: "high"},
	}}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken.AccessToken).
		SetBody(body).
		Post(fmt.Sprintf("/v1/projects/%s/messages:send", p.projectID))
	if err != nil {
		return fmt.Errorf("fcm request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrPushRejected, resp.StatusCode())
	}
	return nil
}

// Run drains the queue until ctx is done.
func (p *FCMPusher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for range p.workers {
		g.Go(func() error {
			p.work(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (p *FCMPusher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.deliver(ctx, job)
		}
	}
}

func (p *FCMPusher) deliver(ctx context.Context, job pushJob) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err := p.Send(ctx, job.token, job.notification)
	p.metrics.RecordDelivery(ctx, telemetry.ChannelPush, err == nil)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("func", "FCMPusher.deliver").
			Str("device_id", job.notification.DeviceID).
			Str("entity_id", job.notification.EntityID.String()).
			Msg("push delivery failed")
	}
}

// FCM data payloads only carry strings.
func pushData(n models.SyncNotification) map[string]string {
	return map[string]string{
		"type":             MessageTypeSync,
		"action":           n.Action,
		"domain":           n.Domain,
		"entity_id":        n.EntityID.String(),
		"version":          strconv.FormatInt(n.Version, 10),
		"source_device_id": n.SourceDeviceID,
		"issued_at":        n.IssuedAt.UTC().Format(time.RFC3339),
	}
}
