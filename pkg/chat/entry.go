// Package chat implements the turn-taking lifecycle between a local user and a
// remote completion service. A Session keeps a transcript of entries and
// reconciles it with the outcome of each turn's completion request.
package chat

import "time"

// Direction is which side of the conversation produced an entry.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Status is the lifecycle state of an entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Settled reports whether s is a terminal status.
func (s Status) Settled() bool {
	return s == StatusComplete || s == StatusError
}

// Entry is one rendered line of the transcript.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// SettledAt is zero while the entry is pending.
	SettledAt time.Time `json:"settled_at,omitzero"`
}

// IsOutgoing returns true for entries the local user sent.
func (e Entry) IsOutgoing() bool {
	return e.Direction == DirectionOutgoing
}
