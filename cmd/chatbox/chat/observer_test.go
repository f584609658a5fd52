package chatcmder

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatbox/pkg/chat"
	"github.com/papercomputeco/chatbox/pkg/eventstream"
	"github.com/papercomputeco/chatbox/pkg/eventstream/worker"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.TurnSettledEvent
}

func (r *recordingPublisher) PublishTurn(_ context.Context, event *eventstream.TurnSettledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

var _ = Describe("Turn events", func() {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	settlement := func(err error) chat.Settlement {
		return chat.Settlement{
			SessionID: "session-1",
			TurnID:    "turn-1",
			Input:     "hi",
			Entry: chat.Entry{
				ID:        "entry-1",
				Text:      "Hello!",
				Direction: chat.DirectionIncoming,
				Status:    chat.StatusComplete,
				SettledAt: started.Add(250 * time.Millisecond),
			},
			Err:       err,
			StartedAt: started,
		}
	}

	It("maps a successful settlement", func() {
		evt := newTurnEvent(settlement(nil), "http://localhost:1187/completion")
		Expect(evt.EventType).To(Equal(eventstream.EventTypeTurnSettled))
		Expect(evt.Source.SessionID).To(Equal("session-1"))
		Expect(evt.Source.Endpoint).To(Equal("http://localhost:1187/completion"))
		Expect(evt.Turn.TurnID).To(Equal("turn-1"))
		Expect(evt.Turn.Input).To(Equal("hi"))
		Expect(evt.Turn.Output).To(Equal("Hello!"))
		Expect(evt.Turn.Status).To(Equal(eventstream.TurnStatusComplete))
		Expect(evt.Turn.Error).To(BeEmpty())
		Expect(evt.RequestMeta.DurationMs).To(Equal(int64(250)))
	})

	It("keeps the failure out of the output", func() {
		s := settlement(errors.New("connection refused"))
		s.Entry.Text = chat.DefaultApology

		evt := newTurnEvent(s, "")
		Expect(evt.Turn.Status).To(Equal(eventstream.TurnStatusError))
		Expect(evt.Turn.Output).To(Equal(chat.DefaultApology))
		Expect(evt.Turn.Error).To(Equal("connection refused"))
	})

	It("enqueues one event per settled turn", func() {
		publisher := &recordingPublisher{}
		pool, err := worker.NewPool(&worker.Config{Publisher: publisher})
		Expect(err).NotTo(HaveOccurred())

		obs := &turnPublisher{pool: pool}
		obs.TurnSettled(settlement(nil))
		obs.TurnSettled(settlement(nil))
		Expect(pool.Close()).To(Succeed())

		publisher.mu.Lock()
		defer publisher.mu.Unlock()
		Expect(publisher.events).To(HaveLen(2))
		Expect(publisher.events[0].EventID).NotTo(Equal(publisher.events[1].EventID))
	})
})
