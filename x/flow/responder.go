package flow

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/obligation"
	"github.com/iov-one/iou/x/session"
	"github.com/iov-one/iou/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

const roleResponder = "responder"

// Responder is the counterparty of a proposer. It checks a proposed
// transition, signs it if acceptable and waits for the finalized record.
// A responder never submits transitions to the notary.
type Responder struct {
	me      identity.Keyring
	dir     identity.Directory
	chainID string
	opts    options
}

// NewResponder returns a responder signing with given keyring.
func NewResponder(me identity.Keyring, dir identity.Directory, chainID string, opts ...Option) *Responder {
	return &Responder{
		me:      me,
		dir:     dir,
		chainID: chainID,
		opts:    newOptions(opts),
	}
}

// Serve responds to every session accepted by the listener until the
// context is done. Each session is handled in its own goroutine. Sessions in
// progress are completed before Serve returns, each bounded by the flow
// timeout only.
func (r *Responder) Serve(ctx context.Context, l session.Listener) error {
	base := r.opts.loggerFor(ctx)
	logger := base.With("module", "flow", "role", roleResponder)
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		sess, err := l.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accept")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A session in progress outlives the listener context.
			f, err := r.Respond(iou.WithLogger(context.Background(), base), sess)
			if err != nil {
				logger.Error("session failed", "peer", sess.Counterparty(), "err", err)
				return
			}
			logger.Info("transition finalized",
				"peer", sess.Counterparty(),
				"tx", obligation.ShortID(f.TxID),
				"height", f.Height)
		}()
	}
}

// Respond handles a single proposal received over the session. The session
// is closed when the flow ends.
func (r *Responder) Respond(ctx context.Context, sess session.Session) (*notary.Finalized, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()
	defer sess.Close()

	start := time.Now()
	run := &responderRun{
		Responder: r,
		sess:      sess,
		logger: r.opts.loggerFor(ctx).With(
			"module", "flow",
			"role", roleResponder,
			"peer", sess.Counterparty()),
	}
	f, err := run.run(ctx)
	if err != nil {
		run.enter(StateAborted)
		run.logger.Error("flow aborted", "state", run.last, "err", err)
	}
	r.opts.metrics.observe(roleResponder, start, err)
	return f, err
}

// responderRun holds the state of a single responder flow.
type responderRun struct {
	*Responder
	sess   session.Session
	logger log.Logger
	last   State
}

func (r *responderRun) enter(s State) {
	r.logger.Debug("state change", "from", r.last, "to", s)
	r.last = s
	r.opts.enter(s)
}

func (r *responderRun) run(ctx context.Context) (*notary.Finalized, error) {
	msg, err := r.sess.Receive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "await proposal")
	}
	if err := session.Expect(msg, session.KindPropose); err != nil {
		return nil, err
	}
	stx, err := msg.Transition()
	if err != nil {
		r.reject(ctx, err)
		return nil, err
	}
	txID, err := stx.GetTx().ID()
	if err != nil {
		r.reject(ctx, err)
		return nil, err
	}
	r.logger = r.logger.With("tx", obligation.ShortID(txID))
	r.enter(StateReceived)

	if err := r.accept(msg.From, stx); err != nil {
		r.reject(ctx, err)
		return nil, err
	}

	if err := sigs.Sign(r.me, stx, r.chainID); err != nil {
		r.reject(ctx, err)
		return nil, err
	}
	reply, err := session.NewMessage(session.KindSigned, r.me.MyIdentity().Name, stx)
	if err != nil {
		return nil, err
	}
	if err := r.sess.Send(ctx, reply); err != nil {
		return nil, errors.Wrap(err, "send signature")
	}
	r.enter(StateCountersigned)

	f, err := r.awaitFinality(ctx, txID)
	if err != nil {
		return nil, err
	}
	if r.opts.vault != nil {
		if err := r.opts.vault.Save(f); err != nil {
			return nil, errors.Wrap(err, "vault")
		}
	}
	r.enter(StateFinalized)
	return f, nil
}

// accept runs all checks a proposal must pass before it is signed: the
// domain check first, then the transition rules, then the proposer
// signature. The proposer is the party the session is bound to.
func (r *responderRun) accept(from string, stx *sigs.SignedTransition) error {
	me := r.me.MyIdentity()
	if err := r.opts.check(me, stx.Tx); err != nil {
		return err
	}
	if err := obligation.VerifyStructure(stx.Tx); err != nil {
		return err
	}
	peer := r.sess.Counterparty()
	if from != peer {
		return errors.Wrapf(errors.ErrUnauthorized, "proposal from %q over a session with %q", from, peer)
	}
	proposer, err := r.dir.Lookup(peer)
	if err != nil {
		return errors.Wrap(err, "proposer")
	}
	signers, err := sigs.VerifySignatures(r.me, stx, r.chainID)
	if err != nil {
		return err
	}
	var signed bool
	for _, k := range signers {
		if k.Equals(proposer.PubKey) {
			signed = true
		}
	}
	if !signed {
		return errors.Wrapf(errors.ErrUnauthorized, "not signed by the proposer %s", proposer.Name)
	}
	return nil
}

// awaitFinality waits for the finalized record and ensures it is the
// transition that was signed, with a complete set of valid signatures.
func (r *responderRun) awaitFinality(ctx context.Context, txID []byte) (*notary.Finalized, error) {
	msg, err := r.sess.Receive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "await finality")
	}
	if err := session.Expect(msg, session.KindFinalized); err != nil {
		return nil, err
	}
	var f notary.Finalized
	if err := msg.Decode(&f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrProtocol, err.Error())
	}
	if !bytes.Equal(f.TxID, txID) {
		return nil, errors.Wrapf(errors.ErrProtocol, "finalized transition %X was not signed", f.TxID)
	}
	if err := sigs.VerifyTransition(r.me, f.Tx, r.chainID); err != nil {
		return nil, errors.Wrap(err, "finalized")
	}
	return &f, nil
}

func (r *responderRun) reject(ctx context.Context, reason error) {
	if err := r.sess.Send(ctx, session.Reject(r.me.MyIdentity().Name, reason)); err != nil {
		r.logger.Debug("cannot send rejection", "err", err)
	}
}
