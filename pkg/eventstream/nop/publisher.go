// Package nop provides the publisher used when eventstream.provider is "nop".
package nop

import (
	"context"

	"github.com/papercomputeco/chatbox/pkg/eventstream"
)

// Publisher discards settled-turn events.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishTurn rejects a nil event and drops everything else.
func (p *Publisher) PublishTurn(_ context.Context, event *eventstream.TurnSettledEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	return nil
}

func (p *Publisher) Close() error {
	return nil
}
