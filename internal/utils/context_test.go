package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID string
		wantOK bool
	}{
		{name: "set", ctx: WithUserID(context.Background(), "user-1"), wantID: "user-1", wantOK: true},
		{name: "missing", ctx: context.Background()},
		{name: "empty", ctx: WithUserID(context.Background(), "")},
		{name: "wrong type", ctx: context.WithValue(context.Background(), UserIDCtxKey, int64(42))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := GetUserIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestContextKey_String(t *testing.T) {
	assert.Equal(t, "userID", UserIDCtxKey.String())
}
