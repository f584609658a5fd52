package chatcmder

import (
	"sync"

	"github.com/papercomputeco/chatbox/pkg/chat"
)

// surface is the terminal rendition of the host page. The session writes to
// it from its turn goroutines; the bubbletea model reads a snapshot of it
// whenever changed fires.
type surface struct {
	mu      sync.Mutex
	order   []string
	entries map[string]chat.Entry
	reveal  string
	clears  int
	hidden  bool
	notices []string

	// changed holds at most one pending wake-up for the model.
	changed chan struct{}
}

// surfaceSnapshot is a consistent copy of the surface state.
type surfaceSnapshot struct {
	entries []chat.Entry
	reveal  string
	clears  int
	hidden  bool
	notices []string
}

func newSurface() *surface {
	return &surface{
		entries: map[string]chat.Entry{},
		changed: make(chan struct{}, 1),
	}
}

func (s *surface) handles() chat.Handles {
	return chat.Handles{
		Input:      surfaceInput{s},
		Transcript: surfaceTranscript{s},
		Page:       surfacePage{s},
	}
}

func (s *surface) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// snapshot copies the current state and consumes the pending reveal.
func (s *surface) snapshot() surfaceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := surfaceSnapshot{
		entries: make([]chat.Entry, 0, len(s.order)),
		reveal:  s.reveal,
		clears:  s.clears,
		hidden:  s.hidden,
		notices: append([]string(nil), s.notices...),
	}
	for _, id := range s.order {
		snap.entries = append(snap.entries, s.entries[id])
	}
	s.reveal = ""

	return snap
}

type surfaceInput struct{ s *surface }

// Clear records a clear request; the model owns the textarea and applies it.
func (i surfaceInput) Clear() {
	i.s.mu.Lock()
	i.s.clears++
	i.s.mu.Unlock()
	i.s.notify()
}

type surfaceTranscript struct{ s *surface }

func (t surfaceTranscript) Insert(e chat.Entry) {
	t.s.mu.Lock()
	if _, ok := t.s.entries[e.ID]; !ok {
		t.s.order = append(t.s.order, e.ID)
	}
	t.s.entries[e.ID] = e
	t.s.mu.Unlock()
	t.s.notify()
}

func (t surfaceTranscript) Update(e chat.Entry) {
	t.s.mu.Lock()
	if _, ok := t.s.entries[e.ID]; ok {
		t.s.entries[e.ID] = e
	}
	t.s.mu.Unlock()
	t.s.notify()
}

func (t surfaceTranscript) Reveal(e chat.Entry) {
	t.s.mu.Lock()
	t.s.reveal = e.ID
	t.s.mu.Unlock()
	t.s.notify()
}

type surfacePage struct{ s *surface }

func (p surfacePage) Hidden() bool {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.hidden
}

func (p surfacePage) Hide() {
	p.s.mu.Lock()
	p.s.hidden = true
	p.s.mu.Unlock()
	p.s.notify()
}

func (p surfacePage) Notify(text string) {
	p.s.mu.Lock()
	p.s.notices = append(p.s.notices, text)
	p.s.mu.Unlock()
	p.s.notify()
}
