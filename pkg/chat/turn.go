package chat

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of a turn's completion request.
type Outcome struct {
	Text string
	Err  error
}

// OK reports whether the request succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Turn is one user submission and its request/response cycle.
type Turn struct {
	id       string
	input    string
	outgoing Entry

	// entry is the incoming placeholder, owned by the session goroutine
	// running this turn until done is closed.
	entry     *Entry
	startedAt time.Time

	done    chan struct{}
	outcome Outcome
	settled Entry
}

func newTurn(input string, outgoing Entry) *Turn {
	return &Turn{
		id:       uuid.NewString(),
		input:    input,
		outgoing: outgoing,
		done:     make(chan struct{}),
	}
}

func (t *Turn) ID() string {
	return t.id
}

// Input returns the trimmed text sent to the completion service.
func (t *Turn) Input() string {
	return t.input
}

// Outgoing returns the entry created for the user's submission.
func (t *Turn) Outgoing() Entry {
	return t.outgoing
}

// Done is closed once the turn has settled.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Outcome returns the request outcome, blocking until the turn settles.
func (t *Turn) Outcome() Outcome {
	<-t.done
	return t.outcome
}

// Incoming returns the settled incoming entry, blocking until the turn settles.
func (t *Turn) Incoming() Entry {
	<-t.done
	return t.settled
}

func (t *Turn) finish(o Outcome, settled Entry) {
	t.outcome = o
	t.settled = settled
	close(t.done)
}

// Settlement describes a settled turn for observers.
type Settlement struct {
	SessionID string
	TurnID    string
	Input     string
	Entry     Entry
	Err       error
	StartedAt time.Time
}

// Observer is notified once per settled turn, after the transcript has been
// reconciled. Implementations must not block.
type Observer interface {
	TurnSettled(s Settlement)
}

// ObserverFunc adapts a plain function to an Observer.
type ObserverFunc func(s Settlement)

func (f ObserverFunc) TurnSettled(s Settlement) {
	f(s)
}
