package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnSettled is emitted after a chat turn's incoming entry settles.
	EventTypeTurnSettled = "chatbox.turn.settled"
)

// Turn statuses carried by TurnSettledEvent.
const (
	TurnStatusComplete = "complete"
	TurnStatusError    = "error"
)

// TurnSettledEvent is a transport-neutral event payload for a settled turn.
type TurnSettledEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Source        EventSource     `json:"source"`
	RequestMeta   TurnRequestMeta `json:"request_meta"`
	Turn          TurnPayload     `json:"turn"`
}

// EventSource identifies where the turn originated.
type EventSource struct {
	SessionID string `json:"session_id"`
	Endpoint  string `json:"endpoint"`
}

// TurnRequestMeta captures request lifecycle metadata for the event.
type TurnRequestMeta struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// TurnPayload is the user input and the settled reply.
type TurnPayload struct {
	TurnID string `json:"turn_id"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Status string `json:"status"`

	// Error is the underlying failure, kept out of Output which only ever
	// carries user-facing text.
	Error string `json:"error,omitempty"`
}

// NewTurnSettledEvent stamps a v1 event with a fresh ID and emit time.
func NewTurnSettledEvent(source EventSource, meta TurnRequestMeta, turn TurnPayload) *TurnSettledEvent {
	if meta.DurationMs == 0 && !meta.StartedAt.IsZero() && !meta.CompletedAt.IsZero() {
		meta.DurationMs = meta.CompletedAt.Sub(meta.StartedAt).Milliseconds()
	}

	return &TurnSettledEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeTurnSettled,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		RequestMeta:   meta,
		Turn:          turn,
	}
}
