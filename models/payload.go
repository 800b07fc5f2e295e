package models

import (
	"encoding/json"
	"errors"
)

// DomainVoice is the domain of voice enrollment entities.
const DomainVoice = "voice"

// PayloadKind tags which member of [SyncPayload] is set.
type PayloadKind string

const (
	PayloadKindVoice   PayloadKind = "voice"
	PayloadKindGeneric PayloadKind = "generic"
)

var (
	// ErrPayloadKindMismatch is returned when the tag of a payload does not
	// match the populated member or the target domain.
	ErrPayloadKindMismatch = errors.New("payload kind does not match its content")
	// ErrEmptyPayload is returned when no payload member is populated.
	ErrEmptyPayload = errors.New("payload is empty")
)

// SyncPayload is the per-domain body of a sync write. Exactly one member is
// set, as named by Kind. The sync core receives it only as canonical bytes.
type SyncPayload struct {
	Kind    PayloadKind     `json:"kind"`
	Voice   *VoicePayload   `json:"voice,omitempty"`
	Generic json.RawMessage `json:"generic,omitempty"`
}

// VoicePayload describes a voice enrollment sample set.
type VoicePayload struct {
	EnrollmentID string  `json:"enrollment_id"`
	SampleCount  int     `json:"sample_count"`
	EmbeddingRef string  `json:"embedding_ref"`
	QualityScore float64 `json:"quality_score"`
}

// KindForDomain returns the payload kind a domain expects.
func KindForDomain(domain string) PayloadKind {
	if domain == DomainVoice {
		return PayloadKindVoice
	}
	return PayloadKindGeneric
}

// Encode checks that the payload is well formed for domain and returns its
// canonical JSON bytes.
func (p SyncPayload) Encode(domain string) ([]byte, error) {
	if p.Kind != KindForDomain(domain) {
		return nil, ErrPayloadKindMismatch
	}

	switch p.Kind {
	case PayloadKindVoice:
		if p.Voice == nil {
			return nil, ErrEmptyPayload
		}
		if len(p.Generic) > 0 {
			return nil, ErrPayloadKindMismatch
		}
		return json.Marshal(p.Voice)
	default:
		if p.Voice != nil {
			return nil, ErrPayloadKindMismatch
		}
		if len(p.Generic) == 0 {
			return nil, ErrEmptyPayload
		}
		var v any
		if err := json.Unmarshal(p.Generic, &v); err != nil {
			return nil, err
		}
		// re-marshal so that equal documents produce equal checksums
		return json.Marshal(v)
	}
}
