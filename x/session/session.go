package session

import (
	"context"

	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
)

// Session is an ordered, bidirectional channel between two parties. A
// session is used by a single flow and is not safe for concurrent Send or
// concurrent Receive calls.
type Session interface {
	// Send delivers a message to the counterparty.
	Send(ctx context.Context, msg *Message) error
	// Receive blocks until a message from the counterparty arrives, the
	// session is closed or the context is done.
	Receive(ctx context.Context) (*Message, error)
	// Counterparty returns the name of the party on the other end.
	Counterparty() string
	// Close releases the session. Messages already sent are still
	// delivered.
	Close() error
}

// Transport opens sessions to other parties.
type Transport interface {
	Open(ctx context.Context, peer *identity.Party) (Session, error)
}

// TransportFunc allows to use a function as a Transport.
type TransportFunc func(context.Context, *identity.Party) (Session, error)

// Open calls the function.
func (fn TransportFunc) Open(ctx context.Context, peer *identity.Party) (Session, error) {
	return fn(ctx, peer)
}

// Listener accepts sessions opened by other parties.
type Listener interface {
	Accept(ctx context.Context) (Session, error)
}

// contextErr translates the reason of a done context into an error.
func contextErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Wrap(errors.ErrTimeout, "session")
	}
	return errors.Wrap(errors.ErrProtocol, "session canceled")
}

// errClosed is returned when using a closed session.
var errClosed = errors.Wrap(errors.ErrProtocol, "session closed")
