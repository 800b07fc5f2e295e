// Package notify delivers refresh notifications to the sibling devices of a
// user after a committed sync.
//
// Delivery prefers a live websocket held by the [Hub]. Devices without one
// fall back to Firebase Cloud Messaging through the [FCMPusher] queue when
// push is configured and the device registered a push token.
package notify
