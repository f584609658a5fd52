package chat

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingHandle is returned by New when a required collaborator is nil.
var ErrMissingHandle = errors.New("missing session handle")

// Completer is the external completion service a turn is sent to.
type Completer interface {
	Complete(ctx context.Context, text string) (string, error)
}

// CompleterFunc adapts a plain function to a Completer.
type CompleterFunc func(ctx context.Context, text string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Input is the control the user types turns into. The session only ever
// clears it, after a turn completes successfully.
type Input interface {
	Clear()
}

// Transcript is the container entries are rendered into.
type Transcript interface {
	// Insert appends a newly created entry.
	Insert(e Entry)

	// Update replaces a previously inserted entry with the same ID.
	Update(e Entry)

	// Reveal scrolls the container so that e is visible.
	Reveal(e Entry)
}

// Page is the surface hosting the chat.
type Page interface {
	Hidden() bool
	Hide()

	// Notify appends a notice to the surrounding page, outside the chat surface.
	Notify(text string)
}

// Handles are the host surfaces a Session drives. All three are required.
type Handles struct {
	Input      Input
	Transcript Transcript
	Page       Page
}

func (h Handles) validate() error {
	switch {
	case h.Input == nil:
		return fmt.Errorf("%w: input", ErrMissingHandle)
	case h.Transcript == nil:
		return fmt.Errorf("%w: transcript", ErrMissingHandle)
	case h.Page == nil:
		return fmt.Errorf("%w: page", ErrMissingHandle)
	}
	return nil
}
