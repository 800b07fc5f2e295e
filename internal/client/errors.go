package client

import (
	"errors"

	"github.com/MKhiriev/device-sync/internal/adapter"
)

var (
	ErrNoCommand      = errors.New("no command given")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong number of arguments")
	ErrInvalidInput   = errors.New("invalid request body")
)

const (
	MsgInvalidDataProvided = "invalid data provided"
	MsgTokenInvalid        = "token is expired or invalid"
	MsgAccessDenied        = "device belongs to another user"
	MsgDeviceNotFound      = "device is not registered or inactive"
	MsgInternalServerError = "server failed, safe to retry"
)

var userMessages = []struct {
	err error
	msg string
}{
	{adapter.ErrBadRequest, MsgInvalidDataProvided},
	{adapter.ErrUnauthorized, MsgTokenInvalid},
	{adapter.ErrForbidden, MsgAccessDenied},
	{adapter.ErrNotFound, MsgDeviceNotFound},
	{adapter.ErrInternalServerError, MsgInternalServerError},
}

// UserMessage turns a client error into a short line for the terminal.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg + ": " + err.Error()
		}
	}
	return err.Error()
}
