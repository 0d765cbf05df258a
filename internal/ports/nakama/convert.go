package nakama

import (
	"encoding/json"

	"pioneers/internal/domain"
)

// MatchLabel is the JSON label Nakama indexes for match listing queries.
type MatchLabel struct {
	Game  string `json:"game"`
	Open  int    `json:"open"`
	Phase string `json:"phase"`
}

func (l MatchLabel) Encode() string {
	b, _ := json.Marshal(l)
	return string(b)
}

// EventEnvelope wraps a published game event for the wire.
type EventEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorEnvelope is sent privately to the sender of a rejected move.
type ErrorEnvelope struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// MatchStateSnapshot is broadcast whenever seating changes.
type MatchStateSnapshot struct {
	Seats     []string `json:"seats"`
	OwnerSeat int      `json:"ownerSeat"`
	Phase     string   `json:"phase"`
}

// parseMoveRequest decodes and validates a client move payload.
func parseMoveRequest(data []byte) (domain.MoveRequest, error) {
	var req domain.MoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, domain.Validationf("malformed move payload: %v", err)
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func encodeEvent(event string, payload any) []byte {
	raw, _ := json.Marshal(payload)
	b, _ := json.Marshal(EventEnvelope{Event: event, Payload: raw})
	return b
}

func encodeError(err error) []byte {
	b, _ := json.Marshal(ErrorEnvelope{
		Reason:  domain.Reason(err),
		Message: err.Error(),
	})
	return b
}
