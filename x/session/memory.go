package session

import (
	"context"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
)

// pipeBuffer is the number of messages that can be sent over an in-memory
// session before the sender blocks.
const pipeBuffer = 8

// Network is an in-memory transport. Messages are serialized on send, so
// parties never share memory.
type Network struct {
	mu        sync.Mutex
	listeners map[string]*memListener
}

// NewNetwork returns an empty in-memory network.
func NewNetwork() *Network {
	return &Network{listeners: make(map[string]*memListener)}
}

// Listen registers a party on the network. Sessions opened towards this
// party are returned by the listener.
func (n *Network) Listen(name string) (Listener, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[name]; ok {
		return nil, errors.Wrapf(errors.ErrDuplicate, "listener %q", name)
	}
	l := &memListener{incoming: make(chan Session)}
	n.listeners[name] = l
	return l, nil
}

// Transport returns a transport that opens sessions on behalf of given
// party.
func (n *Network) Transport(me string) Transport {
	return TransportFunc(func(ctx context.Context, peer *identity.Party) (Session, error) {
		return n.open(ctx, me, peer.GetName())
	})
}

func (n *Network) open(ctx context.Context, from, to string) (Session, error) {
	n.mu.Lock()
	l, ok := n.listeners[to]
	n.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrProtocol, "no route to %q", to)
	}

	dialer, listener := Pipe(from, to)
	select {
	case l.incoming <- listener:
		return dialer, nil
	case <-ctx.Done():
		return nil, contextErr(ctx)
	}
}

type memListener struct {
	incoming chan Session
}

func (l *memListener) Accept(ctx context.Context) (Session, error) {
	select {
	case s := <-l.incoming:
		return s, nil
	case <-ctx.Done():
		return nil, contextErr(ctx)
	}
}

// Pipe returns two connected in-memory sessions, one for each party.
func Pipe(a, b string) (Session, Session) {
	ab := make(chan []byte, pipeBuffer)
	ba := make(chan []byte, pipeBuffer)
	closed := make(chan struct{})
	once := &sync.Once{}
	sa := &memSession{peer: b, in: ba, out: ab, closed: closed, once: once}
	sb := &memSession{peer: a, in: ab, out: ba, closed: closed, once: once}
	return sa, sb
}

type memSession struct {
	peer   string
	in     <-chan []byte
	out    chan<- []byte
	closed chan struct{}
	once   *sync.Once
}

var _ Session = (*memSession)(nil)

func (s *memSession) Send(ctx context.Context, msg *Message) error {
	raw, err := proto.Marshal(msg)
	if err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	select {
	case <-s.closed:
		return errClosed
	default:
	}
	select {
	case s.out <- raw:
		return nil
	case <-s.closed:
		return errClosed
	case <-ctx.Done():
		return contextErr(ctx)
	}
}

func (s *memSession) Receive(ctx context.Context) (*Message, error) {
	select {
	case raw := <-s.in:
		return decodeMessage(raw)
	case <-s.closed:
		// Messages sent before closing are still delivered.
		select {
		case raw := <-s.in:
			return decodeMessage(raw)
		default:
			return nil, errClosed
		}
	case <-ctx.Done():
		return nil, contextErr(ctx)
	}
}

func (s *memSession) Counterparty() string {
	return s.peer
}

func (s *memSession) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func decodeMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := proto.Unmarshal(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrProtocol, err.Error())
	}
	return &msg, nil
}
