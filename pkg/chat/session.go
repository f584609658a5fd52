package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultThinkingDelay is how long a turn waits before its placeholder appears.
	DefaultThinkingDelay = 900 * time.Millisecond

	DefaultPlaceholder = "Thinking..."
	DefaultApology     = "Oops! Something went wrong. Please try again!"
	DefaultFarewell    = "Thanks for using our Chatbot!"
)

// Option configures a Session created with New.
type Option func(*Session)

// WithLogger sets the logger that settle failures are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThinkingDelay sets the pause between the outgoing entry and the
// placeholder. Zero inserts the placeholder immediately.
func WithThinkingDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.thinkingDelay = d
		}
	}
}

// WithPlaceholder sets the text of a pending incoming entry.
func WithPlaceholder(text string) Option {
	return func(s *Session) {
		if text != "" {
			s.placeholder = text
		}
	}
}

// WithApology sets the text a failed incoming entry is replaced with.
func WithApology(text string) Option {
	return func(s *Session) {
		if text != "" {
			s.apology = text
		}
	}
}

// WithFarewell sets the notice appended to the page when the session ends.
func WithFarewell(text string) Option {
	return func(s *Session) {
		if text != "" {
			s.farewell = text
		}
	}
}

// WithObserver registers an observer notified once per settled turn.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// Session owns the transcript and the request lifecycle of every turn.
//
// Entries are kept in insertion order. Each turn owns exactly one incoming
// placeholder and writes only to it, so overlapping turns may settle in any
// order without touching each other's entries.
type Session struct {
	id        string
	completer Completer
	handles   Handles
	logger    *zap.Logger
	observer  Observer

	thinkingDelay time.Duration
	placeholder   string
	apology       string
	farewell      string

	// mu guards entries and the fields of every *Entry in it.
	mu      sync.Mutex
	entries []*Entry

	// viewMu serializes calls into the host handles.
	viewMu sync.Mutex

	inflight sync.WaitGroup
}

// New returns a Session that sends turns to completer and renders them
// through h.
func New(completer Completer, h Handles, opts ...Option) (*Session, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer", ErrMissingHandle)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:            uuid.NewString(),
		completer:     completer,
		handles:       h,
		logger:        zap.NewNop(),
		thinkingDelay: DefaultThinkingDelay,
		placeholder:   DefaultPlaceholder,
		apology:       DefaultApology,
		farewell:      DefaultFarewell,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SubmitTurn starts a turn for raw. Leading and trailing whitespace is
// trimmed; blank input is ignored and nil is returned.
//
// The outgoing entry is inserted before SubmitTurn returns. The placeholder
// and the completion request follow asynchronously on the returned Turn.
func (s *Session) SubmitTurn(raw string) *Turn {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	now := time.Now()
	outgoing := s.appendEntry(&Entry{
		ID:        uuid.NewString(),
		Text:      text,
		Direction: DirectionOutgoing,
		Status:    StatusComplete,
		CreatedAt: now,
		SettledAt: now,
	})
	s.insert(outgoing)

	t := newTurn(text, outgoing)

	s.logger.Debug("turn submitted",
		zap.String("session_id", s.id),
		zap.String("turn_id", t.id),
		zap.Int("input_len", len(text)),
	)

	s.inflight.Add(1)
	go s.run(t)

	return t
}

// run waits out the thinking delay, inserts the placeholder and dispatches
// the completion request. The placeholder always exists before the request
// is sent.
func (s *Session) run(t *Turn) {
	defer s.inflight.Done()

	if s.thinkingDelay > 0 {
		timer := time.NewTimer(s.thinkingDelay)
		<-timer.C
	}

	placeholder := &Entry{
		ID:        uuid.NewString(),
		Text:      s.placeholder,
		Direction: DirectionIncoming,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	t.entry = placeholder
	s.insert(s.appendEntry(placeholder))

	t.startedAt = time.Now()
	text, err := s.completer.Complete(context.Background(), t.input)
	s.settle(t, Outcome{Text: text, Err: err})
}

// settle reconciles the turn's placeholder with the request outcome. It runs
// exactly once per turn.
func (s *Session) settle(t *Turn, o Outcome) {
	s.mu.Lock()
	if o.Err != nil {
		t.entry.Status = StatusError
		t.entry.Text = s.apology
	} else {
		t.entry.Status = StatusComplete
		t.entry.Text = o.Text
	}
	t.entry.SettledAt = time.Now()
	snapshot := *t.entry
	s.mu.Unlock()

	if o.Err != nil {
		s.logger.Error("completion request failed",
			zap.String("session_id", s.id),
			zap.String("turn_id", t.id),
			zap.Error(o.Err),
			zap.Stack("stack"),
		)
	} else {
		s.logger.Debug("turn completed",
			zap.String("session_id", s.id),
			zap.String("turn_id", t.id),
			zap.Duration("elapsed", snapshot.SettledAt.Sub(t.startedAt)),
		)
	}

	s.viewMu.Lock()
	s.handles.Transcript.Update(snapshot)
	if o.Err == nil {
		s.handles.Input.Clear()
	}
	s.handles.Transcript.Reveal(snapshot)
	s.viewMu.Unlock()

	t.finish(o, snapshot)

	if s.observer != nil {
		s.observer.TurnSettled(Settlement{
			SessionID: s.id,
			TurnID:    t.id,
			Input:     t.input,
			Entry:     snapshot,
			Err:       o.Err,
			StartedAt: t.startedAt,
		})
	}
}

// EndSession hides the chat surface and leaves a farewell notice on the
// page. Calling it on an already hidden surface does nothing.
func (s *Session) EndSession() {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()

	if s.handles.Page.Hidden() {
		return
	}

	s.handles.Page.Hide()
	s.handles.Page.Notify(s.farewell)

	s.logger.Debug("session ended", zap.String("session_id", s.id))
}

// Entries returns a copy of the transcript in insertion order.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

// Wait blocks until every turn submitted so far has settled.
func (s *Session) Wait() {
	s.inflight.Wait()
}

func (s *Session) appendEntry(e *Entry) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	return *e
}

func (s *Session) insert(e Entry) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()

	s.handles.Transcript.Insert(e)
	s.handles.Transcript.Reveal(e)
}
