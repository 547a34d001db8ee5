package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"spendwise/internal/core"
)

var errEmptyBody = errors.New("raw message has empty body")

// RawMessageEnvelope carries one raw text message over the broker.
type RawMessageEnvelope struct {
	core.RawMessage
	PublishedAt time.Time `json:"published_at"`
}

// NewRawMessageEnvelope wraps msg for publishing
func NewRawMessageEnvelope(msg core.RawMessage) *RawMessageEnvelope {
	return &RawMessageEnvelope{
		RawMessage:  msg,
		PublishedAt: time.Now(),
	}
}

// ToJSON converts the envelope to JSON bytes
func (m *RawMessageEnvelope) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RawMessageEnvelopeFromJSON decodes an envelope. Envelopes without a body
// are rejected since they can never yield a transaction.
func RawMessageEnvelopeFromJSON(data []byte) (*RawMessageEnvelope, error) {
	var msg RawMessageEnvelope
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Body == "" {
		return nil, errEmptyBody
	}
	return &msg, nil
}
