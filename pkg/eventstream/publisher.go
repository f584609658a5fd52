// Package eventstream publishes settled chat turns to an event stream backend.
package eventstream

import (
	"context"
	"errors"
)

// ErrNilTurnEvent indicates a nil turn event payload was provided to a publisher.
var ErrNilTurnEvent = errors.New("nil turn event")

// Publisher publishes turn events to an event stream backend.
type Publisher interface {
	PublishTurn(ctx context.Context, event *TurnSettledEvent) error
	Close() error
}
