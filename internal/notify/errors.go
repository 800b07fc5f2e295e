package notify

import "errors"

var (
	ErrNoLiveConnection = errors.New("device has no live connection")
	ErrSendBufferFull   = errors.New("connection send buffer is full")
	ErrNoPushToken      = errors.New("device has no push token")
	ErrPushQueueFull    = errors.New("push queue is full")
	ErrPushRejected     = errors.New("push rejected by provider")
	ErrPushToken        = errors.New("failed to obtain push access token")
	ErrPushCredentials  = errors.New("invalid push credentials")
	ErrEncodeMessage    = errors.New("failed to encode notification")
)
