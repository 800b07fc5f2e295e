package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/device-sync/models"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusInternalServerError: ErrInternalServerError,
}

func mapHTTPError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	message := responseMessage(resp)
	if target, ok := statusErrors[resp.StatusCode()]; ok {
		return fmt.Errorf("%w: %s", target, message)
	}
	return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, resp.StatusCode(), message)
}

// responseMessage prefers the message of a JSON sync outcome and falls back
// to the plain body.
func responseMessage(resp *resty.Response) string {
	var outcome models.SyncResponse
	if err := json.Unmarshal(resp.Body(), &outcome); err == nil && outcome.Message != "" {
		return outcome.Message
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		return http.StatusText(resp.StatusCode())
	}
	return body
}
