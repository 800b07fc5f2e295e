package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 512 * 1024
	defaultSendBuffer = 16
)

// MessageTypeSync tags a refresh notification on the websocket.
const MessageTypeSync = "sync"

// Message is the envelope written to a websocket.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is the live websocket of one device.
type Client struct {
	userID   string
	deviceID string
	conn     *websocket.Conn
	send     chan []byte
	hub      *Hub

	mu     sync.Mutex
	closed bool
}

// DeviceID returns the device the connection belongs to.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// trySend never blocks. A full buffer means the peer is too slow and the
// message is dropped for this channel.
func (c *Client) trySend(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrNoLiveConnection
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// WritePump writes queued messages and keepalive pings until the send buffer
// is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump blocks until the peer goes away and then detaches the client from
// the hub. Inbound frames other than control frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().Err(err).
					Str("func", "Client.ReadPump").
					Str("device_id", c.deviceID).
					Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

// Hub tracks at most one live websocket per device, grouped by user.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[string]*Client
	sendBuffer int

	logger *logger.Logger
}

// NewHub creates an empty hub. Every connection gets a send buffer of
// sendBuffer messages.
func NewHub(sendBuffer int, log *logger.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Hub{
		clients:    make(map[string]map[string]*Client),
		sendBuffer: sendBuffer,
		logger:     log,
	}
}

// Register makes conn the live connection of the device. A previous
// connection of the same device is closed.
func (h *Hub) Register(userID, deviceID string, conn *websocket.Conn) *Client {
	c := &Client{
		userID:   userID,
		deviceID: deviceID,
		conn:     conn,
		send:     make(chan []byte, h.sendBuffer),
		hub:      h,
	}

	h.mu.Lock()
	devices, ok := h.clients[userID]
	if !ok {
		devices = make(map[string]*Client)
		h.clients[userID] = devices
	}
	old := devices[deviceID]
	devices[deviceID] = c
	h.mu.Unlock()

	if old != nil {
		old.close()
	}

	h.logger.Info().
		Str("func", "Hub.Register").
		Str("user_id", userID).
		Str("device_id", deviceID).
		Bool("replaced", old != nil).
		Msg("websocket registered")
	return c
}

// Unregister detaches c. It is a no-op when c was already replaced.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if devices, ok := h.clients[c.userID]; ok && devices[c.deviceID] == c {
		delete(devices, c.deviceID)
		if len(devices) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()

	c.close()
}

// Connected reports whether the device holds a live connection.
func (h *Hub) Connected(userID, deviceID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID][deviceID]
	return ok
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, devices := range h.clients {
		n += len(devices)
	}
	return n
}

// PushToUserSync queues notification on the websocket of
// notification.DeviceID. It returns ErrNoLiveConnection when the device is
// not connected and ErrSendBufferFull when the connection cannot keep up.
func (h *Hub) PushToUserSync(ctx context.Context, userID string, notification models.SyncNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.RLock()
	c := h.clients[userID][notification.DeviceID]
	h.mu.RUnlock()
	if c == nil {
		return ErrNoLiveConnection
	}

	data, err := json.Marshal(Message{Type: MessageTypeSync, Payload: notification})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeMessage, err)
	}
	return c.trySend(data)
}

// Close detaches every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Client
	for _, devices := range h.clients {
		for _, c := range devices {
			all = append(all, c)
		}
	}
	h.clients = make(map[string]map[string]*Client)
	h.mu.Unlock()

	for _, c := range all {
		c.close()
	}
}
