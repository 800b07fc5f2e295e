package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPayload_Encode(t *testing.T) {
	voice := &VoicePayload{EnrollmentID: "enr-1", SampleCount: 3, EmbeddingRef: "s3://x", QualityScore: 0.9}

	tests := []struct {
		name    string
		domain  string
		payload SyncPayload
		wantErr error
		want    string
	}{
		{
			name:    "voice domain with voice payload",
			domain:  DomainVoice,
			payload: SyncPayload{Kind: PayloadKindVoice, Voice: voice},
			want:    `{"enrollment_id":"enr-1","sample_count":3,"embedding_ref":"s3://x","quality_score":0.9}`,
		},
		{
			name:    "voice domain with generic tag",
			domain:  DomainVoice,
			payload: SyncPayload{Kind: PayloadKindGeneric, Generic: json.RawMessage(`{"a":1}`)},
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name:    "voice tag without voice body",
			domain:  DomainVoice,
			payload: SyncPayload{Kind: PayloadKindVoice},
			wantErr: ErrEmptyPayload,
		},
		{
			name:    "generic payload is canonicalised",
			domain:  "notes",
			payload: SyncPayload{Kind: PayloadKindGeneric, Generic: json.RawMessage(`{ "b": 2, "a": 1 }`)},
			want:    `{"a":1,"b":2}`,
		},
		{
			name:    "generic tag with both members",
			domain:  "notes",
			payload: SyncPayload{Kind: PayloadKindGeneric, Voice: voice, Generic: json.RawMessage(`{}`)},
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name:    "generic tag without body",
			domain:  "notes",
			payload: SyncPayload{Kind: PayloadKindGeneric},
			wantErr: ErrEmptyPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.payload.Encode(tt.domain)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestVoiceSyncRequest_SyncRequest(t *testing.T) {
	req := VoiceSyncRequest{DeviceID: "phone-1", Version: 2, Voice: VoicePayload{EnrollmentID: "e"}}

	got := req.SyncRequest()

	assert.Equal(t, DomainVoice, got.Domain)
	assert.Equal(t, PayloadKindVoice, got.Payload.Kind)
	require.NotNil(t, got.Payload.Voice)
	assert.Equal(t, "e", got.Payload.Voice.EnrollmentID)
}
