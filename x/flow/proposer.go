package flow

import (
	"bytes"
	"context"
	"time"

	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/obligation"
	"github.com/iov-one/iou/x/session"
	"github.com/iov-one/iou/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

const roleProposer = "proposer"

// Proposer drives a transition from creation to finality. It signs the
// transition, collects the counterparty signature and submits the fully
// signed transition to the notary. The proposer is the only party that
// submits.
type Proposer struct {
	me        identity.Keyring
	dir       identity.Directory
	transport session.Transport
	notary    notary.Service
	chainID   string
	opts      options
}

// NewProposer returns a proposer signing with given keyring. Counterparties
// are resolved with the directory and reached with the transport.
func NewProposer(
	me identity.Keyring,
	dir identity.Directory,
	transport session.Transport,
	n notary.Service,
	chainID string,
	opts ...Option,
) *Proposer {
	return &Proposer{
		me:        me,
		dir:       dir,
		transport: transport,
		notary:    n,
		chainID:   chainID,
		opts:      newOptions(opts),
	}
}

// Issue creates an obligation of the borrower towards the local party and
// runs it through the whole flow. An invalid amount or borrower is reported
// before any message is sent.
func (p *Proposer) Issue(ctx context.Context, amount int64, borrower string) (*notary.Finalized, error) {
	b, err := p.dir.Lookup(borrower)
	if err != nil {
		return nil, errors.Wrap(err, "borrower")
	}
	tx, err := obligation.BuildIssueProposal(amount, p.me.MyIdentity(), b, p.notary.Name())
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, tx)
}

// Run drives given transition through the flow.
//
// When the returned error is nil, the transition is final. When both a
// record and an error are returned, the transition is final but the
// counterparty could not be notified about it.
func (p *Proposer) Run(ctx context.Context, tx *obligation.Transition) (*notary.Finalized, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	defer cancel()

	start := time.Now()
	logger := p.opts.loggerFor(ctx).With("module", "flow", "role", roleProposer)
	r := &proposerRun{Proposer: p, logger: logger}
	f, err := r.run(ctx, tx)
	if f == nil {
		r.enter(StateAborted)
		logger.Error("flow aborted", "state", r.last, "err", err)
	}
	if f != nil {
		// Final, even if not everybody was told.
		p.opts.metrics.observe(roleProposer, start, nil)
	} else {
		p.opts.metrics.observe(roleProposer, start, err)
	}
	return f, err
}

// proposerRun holds the state of a single proposer flow.
type proposerRun struct {
	*Proposer
	logger log.Logger
	last   State
}

func (r *proposerRun) enter(s State) {
	r.logger.Debug("state change", "from", r.last, "to", s)
	r.last = s
	r.opts.enter(s)
}

func (r *proposerRun) run(ctx context.Context, tx *obligation.Transition) (*notary.Finalized, error) {
	txID, err := tx.ID()
	if err != nil {
		return nil, err
	}
	r.logger = r.logger.With("tx", obligation.ShortID(txID))
	r.enter(StateBuilt)

	if err := obligation.VerifyStructure(tx); err != nil {
		return nil, errors.Wrap(err, "proposal")
	}
	peer, err := r.counterparty(tx)
	if err != nil {
		return nil, err
	}

	stx := sigs.NewSignedTransition(tx.Copy())
	if err := sigs.Sign(r.me, stx, r.chainID); err != nil {
		return nil, err
	}
	r.enter(StateSelfSigned)

	sess, err := r.transport.Open(ctx, peer)
	if err != nil {
		return nil, errors.Wrapf(err, "open session with %s", peer.Name)
	}
	defer sess.Close()

	msg, err := session.NewMessage(session.KindPropose, r.me.MyIdentity().Name, stx)
	if err != nil {
		return nil, err
	}
	if err := sess.Send(ctx, msg); err != nil {
		return nil, errors.Wrap(err, "send proposal")
	}
	r.enter(StateAwaitingCounterparty)

	signed, err := r.collect(ctx, sess, txID)
	if err != nil {
		r.reject(ctx, sess, err)
		return nil, err
	}
	r.enter(StateCollected)

	r.enter(StateSubmitted)
	f, err := r.notary.Submit(ctx, signed)
	if err != nil {
		err = errors.Wrap(err, "notary")
		r.reject(ctx, sess, err)
		return nil, err
	}
	r.enter(StateFinalized)
	r.logger.Info("transition finalized", "height", f.Height)

	var errs error
	if r.opts.vault != nil {
		if err := r.opts.vault.Save(f); err != nil {
			errs = errors.Append(errs, errors.Wrap(err, "vault"))
		}
	}
	if err := r.notify(ctx, sess, f); err != nil {
		errs = errors.Append(errs, err)
	}
	if errs != nil {
		r.logger.Error("finalized transition not fully propagated", "err", errs)
	}
	return f, errs
}

// counterparty returns the single participant that is not the local party.
func (r *proposerRun) counterparty(tx *obligation.Transition) (*identity.Party, error) {
	me := r.me.MyIdentity()
	var others []*identity.Party
	for _, o := range tx.Produced {
		for _, p := range o.Participants() {
			if p.Equals(me) {
				continue
			}
			known, err := r.dir.ByKey(p.PubKey)
			if err != nil {
				return nil, errors.Wrap(err, "counterparty")
			}
			others = append(others, known)
		}
	}
	if len(others) != 1 {
		return nil, errors.Wrapf(errors.ErrInput, "exactly one counterparty required, got %d", len(others))
	}
	return others[0], nil
}

// collect awaits the counterparty signature and ensures the returned
// transition is the proposed one with a complete signature set.
func (r *proposerRun) collect(ctx context.Context, sess session.Session, txID []byte) (*sigs.SignedTransition, error) {
	reply, err := sess.Receive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "await counterparty")
	}
	if err := session.Expect(reply, session.KindSigned); err != nil {
		return nil, err
	}
	signed, err := reply.Transition()
	if err != nil {
		return nil, err
	}
	gotID, err := signed.GetTx().ID()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(gotID, txID) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "transition modified by counterparty")
	}
	signers, err := sigs.VerifySignatures(r.me, signed, r.chainID)
	if err != nil {
		return nil, err
	}
	if err := obligation.VerifyComplete(signed.Tx, signers); err != nil {
		return nil, errors.Wrap(err, "incomplete signature set")
	}
	return signed, nil
}

// reject tells the counterparty that the flow is aborted, unless it was the
// counterparty that aborted it.
func (r *proposerRun) reject(ctx context.Context, sess session.Session, reason error) {
	if errors.ErrRejected.Is(reason) {
		return
	}
	if err := sess.Send(ctx, session.Reject(r.me.MyIdentity().Name, reason)); err != nil {
		r.logger.Debug("cannot send rejection", "err", err)
	}
}

func (r *proposerRun) notify(ctx context.Context, sess session.Session, f *notary.Finalized) error {
	msg, err := session.NewMessage(session.KindFinalized, r.me.MyIdentity().Name, f)
	if err != nil {
		return err
	}
	if err := sess.Send(ctx, msg); err != nil {
		return errors.Wrap(err, "notify counterparty")
	}
	return nil
}
