package chatcmder

import (
	"github.com/papercomputeco/chatbox/pkg/chat"
	"github.com/papercomputeco/chatbox/pkg/eventstream"
	"github.com/papercomputeco/chatbox/pkg/eventstream/worker"
)

// turnPublisher converts settled turns into events and hands them to the
// publish pool.
type turnPublisher struct {
	pool     *worker.Pool
	endpoint string
}

func (p *turnPublisher) TurnSettled(s chat.Settlement) {
	p.pool.Enqueue(worker.Job{Event: newTurnEvent(s, p.endpoint)})
}

func newTurnEvent(s chat.Settlement, endpoint string) *eventstream.TurnSettledEvent {
	payload := eventstream.TurnPayload{
		TurnID: s.TurnID,
		Input:  s.Input,
		Output: s.Entry.Text,
		Status: eventstream.TurnStatusComplete,
	}
	if s.Err != nil {
		payload.Status = eventstream.TurnStatusError
		payload.Error = s.Err.Error()
	}

	return eventstream.NewTurnSettledEvent(
		eventstream.EventSource{SessionID: s.SessionID, Endpoint: endpoint},
		eventstream.TurnRequestMeta{StartedAt: s.StartedAt, CompletedAt: s.Entry.SettledAt},
		payload,
	)
}
