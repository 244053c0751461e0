package session

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/gorilla/websocket"
	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// helloTimeout limits how long a freshly upgraded connection may take
	// to introduce itself.
	helloTimeout = 10 * time.Second
	// acceptTimeout limits how long an introduced connection waits to be
	// accepted.
	acceptTimeout = 30 * time.Second
	closeTimeout  = time.Second
)

// Dialer opens websocket sessions to parties listed in the address book.
type Dialer struct {
	// Me is the name of the local party, sent in the hello frame.
	Me string
	// Peers maps party names to websocket URLs.
	Peers map[string]string

	ws websocket.Dialer
}

var _ Transport = (*Dialer)(nil)

// NewDialer returns a transport that reaches peers by their URLs.
func NewDialer(me string, peers map[string]string) *Dialer {
	return &Dialer{
		Me:    me,
		Peers: peers,
		ws: websocket.Dialer{
			HandshakeTimeout: helloTimeout,
		},
	}
}

// Open connects to the peer and introduces the local party.
func (d *Dialer) Open(ctx context.Context, peer *identity.Party) (Session, error) {
	url, ok := d.Peers[peer.GetName()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "address of %q", peer.GetName())
	}
	conn, _, err := d.ws.DialContext(ctx, url, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextErr(ctx)
		}
		return nil, errors.Wrapf(errors.ErrProtocol, "dial %s: %s", url, err)
	}
	s := newWSSession(conn, peer.GetName())
	if err := s.Send(ctx, &Message{Kind: KindHello, From: d.Me}); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "hello")
	}
	return s, nil
}

// Server accepts websocket sessions. Mount it as an http.Handler and call
// Accept to receive introduced sessions.
type Server struct {
	upgrader websocket.Upgrader
	incoming chan Session
	logger   log.Logger
}

var _ Listener = (*Server)(nil)
var _ http.Handler = (*Server)(nil)

// NewServer returns a websocket listener.
func NewServer(logger log.Logger) *Server {
	if logger == nil {
		logger = iou.DefaultLogger
	}
	return &Server{
		upgrader: websocket.Upgrader{
			HandshakeTimeout: helloTimeout,
			// Parties are authenticated by signatures, not by
			// the origin of the connection.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		incoming: make(chan Session),
		logger:   logger.With("module", "session"),
	}
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Error("cannot upgrade connection", "remote", r.RemoteAddr, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), helloTimeout)
	defer cancel()
	s := newWSSession(conn, "")
	hello, err := s.Receive(ctx)
	if err == nil && (hello.Kind != KindHello || hello.From == "") {
		err = errors.Wrapf(errors.ErrProtocol, "want hello, got %s", hello.Kind)
	}
	if err != nil {
		srv.logger.Error("session handshake failed", "remote", r.RemoteAddr, "err", err)
		_ = s.Close()
		return
	}
	s.peer = hello.From

	select {
	case srv.incoming <- s:
		srv.logger.Debug("session accepted", "peer", s.peer, "remote", r.RemoteAddr)
	case <-time.After(acceptTimeout):
		srv.logger.Error("session not accepted in time", "peer", s.peer)
		_ = s.Close()
	}
}

// Accept returns the next introduced session.
func (srv *Server) Accept(ctx context.Context) (Session, error) {
	select {
	case s := <-srv.incoming:
		return s, nil
	case <-ctx.Done():
		return nil, contextErr(ctx)
	}
}

type wsSession struct {
	conn *websocket.Conn
	peer string

	// websocket connections support one concurrent writer.
	writeMu sync.Mutex
	once    sync.Once
}

var _ Session = (*wsSession)(nil)

func newWSSession(conn *websocket.Conn, peer string) *wsSession {
	return &wsSession{conn: conn, peer: peer}
}

func (s *wsSession) Send(ctx context.Context, msg *Message) error {
	raw, err := proto.Marshal(msg)
	if err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var deadline time.Time
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return errors.Wrap(errors.ErrProtocol, err.Error())
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, raw); err != nil {
		if ctx.Err() != nil {
			return contextErr(ctx)
		}
		return errors.Wrap(errors.ErrProtocol, err.Error())
	}
	return nil
}

func (s *wsSession) Receive(ctx context.Context) (*Message, error) {
	stop, err := s.watch(ctx)
	if err != nil {
		return nil, err
	}
	defer stop()

	typ, raw, err := s.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextErr(ctx)
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, errors.Wrap(errors.ErrTimeout, "session")
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, errClosed
		}
		return nil, errors.Wrap(errors.ErrProtocol, err.Error())
	}
	if typ != websocket.BinaryMessage {
		return nil, errors.Wrapf(errors.ErrProtocol, "unexpected frame type %d", typ)
	}
	return decodeMessage(raw)
}

// watch sets the read deadline of the connection to follow the context. The
// returned function must be called once reading is done.
func (s *wsSession) watch(ctx context.Context) (func(), error) {
	var deadline time.Time
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(errors.ErrProtocol, err.Error())
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			// Unblock the pending read.
			_ = s.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()
	return func() { close(done) }, nil
}

func (s *wsSession) Counterparty() string {
	return s.peer
}

func (s *wsSession) Close() error {
	var err error
	s.once.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
		err = s.conn.Close()
	})
	return err
}
