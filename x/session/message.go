package session

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/sigs"
)

// Kind is the type of a message.
type Kind int32

const (
	KindUnknown Kind = iota
	// KindHello is the first frame sent by a dialing party over a network
	// connection. It carries the name of the dialer.
	KindHello
	// KindPropose carries a transition signed by the proposer only.
	KindPropose
	// KindSigned carries the proposed transition with the counterparty
	// signature appended.
	KindSigned
	// KindReject aborts the exchange. Code and Reason explain why.
	KindReject
	// KindFinalized carries the record committed by the notary.
	KindFinalized
)

func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindPropose:
		return "propose"
	case KindSigned:
		return "signed"
	case KindReject:
		return "reject"
	case KindFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// NewMessage returns a message of given kind carrying an encoded payload.
func NewMessage(kind Kind, from string, payload proto.Message) (*Message, error) {
	raw, err := proto.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return &Message{Kind: kind, From: from, Payload: raw}, nil
}

// Reject returns a message that aborts the exchange. The error code and
// message are transmitted so that the other side can rebuild it.
func Reject(from string, err error) *Message {
	return &Message{
		Kind:   KindReject,
		From:   from,
		Code:   errors.Code(err),
		Reason: err.Error(),
	}
}

// Decode unpacks the payload into given destination.
func (m *Message) Decode(dst proto.Message) error {
	if len(m.Payload) == 0 {
		return errors.Wrapf(errors.ErrEmpty, "%s payload", m.Kind)
	}
	if err := proto.Unmarshal(m.Payload, dst); err != nil {
		return errors.Wrapf(errors.ErrProtocol, "cannot decode %s payload: %s", m.Kind, err)
	}
	return nil
}

// Transition unpacks a signed transition from a propose or signed message.
func (m *Message) Transition() (*sigs.SignedTransition, error) {
	if m.Kind != KindPropose && m.Kind != KindSigned {
		return nil, errors.Wrapf(errors.ErrProtocol, "unexpected %s message", m.Kind)
	}
	var stx sigs.SignedTransition
	if err := m.Decode(&stx); err != nil {
		return nil, err
	}
	return &stx, nil
}

// Expect returns an error unless the message is of given kind. A reject
// message is turned into a RejectError.
func Expect(m *Message, kind Kind) error {
	switch m.Kind {
	case kind:
		return nil
	case KindReject:
		return RemoteError(m)
	default:
		return errors.Wrapf(errors.ErrProtocol, "want %s message, got %s", kind, m.Kind)
	}
}

// RejectError is returned when the counterparty refused to continue the
// exchange.
type RejectError struct {
	From   string
	Code   uint32
	Reason string
}

// RemoteError rebuilds the error transmitted in a reject message.
func RemoteError(m *Message) error {
	return &RejectError{From: m.From, Code: m.Code, Reason: m.Reason}
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("rejected by %s: %s", e.From, e.Reason)
}

// Cause implements the causer interface, all rejections are ErrRejected.
func (e *RejectError) Cause() error {
	return errors.ErrRejected
}

// Kind returns the root error reported by the counterparty. Unknown codes
// are reported as ErrRejected.
func (e *RejectError) Kind() *errors.Error {
	if k := errors.Lookup(e.Code); k != nil {
		return k
	}
	return errors.ErrRejected
}

// AsReject returns the rejection that caused given error, if any.
func AsReject(err error) (*RejectError, bool) {
	type causer interface {
		Cause() error
	}
	for err != nil {
		if r, ok := err.(*RejectError); ok {
			return r, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}
