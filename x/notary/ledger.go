package notary

import (
	"context"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/obligation"
	"github.com/iov-one/iou/x/sigs"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DefaultCacheSize is the number of ledger nodes kept in memory.
	DefaultCacheSize = 10000

	txPrefix    = "tx:"
	spentPrefix = "spent:"
)

// Ledger is a notary that keeps committed transitions and consumed records
// in a versioned merkle tree. Every accepted transition creates a new
// version.
type Ledger struct {
	mu      sync.Mutex
	name    string
	chainID string
	tree    *iavl.MutableTree
	logger  log.Logger
	metrics *Metrics
}

var _ Service = (*Ledger)(nil)

// Option configures a ledger.
type Option func(*Ledger)

// WithLogger sets the logger of the ledger.
func WithLogger(logger log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithMetrics sets the collector of submission results.
func WithMetrics(m *Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// NewLedger returns a notary with given name, accepting transitions signed
// for given chain. Previously committed state is loaded from the database.
func NewLedger(name, chainID string, db dbm.DB, opts ...Option) (*Ledger, error) {
	if name == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "notary name")
	}
	if !iou.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	tree := iavl.NewMutableTree(db, DefaultCacheSize)
	if _, err := tree.Load(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	l := &Ledger{
		name:    name,
		chainID: chainID,
		tree:    tree,
		logger:  iou.DefaultLogger,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("module", "notary", "notary", name)
	return l, nil
}

// Name returns the name of this notary.
func (l *Ledger) Name() string {
	return l.name
}

// Height returns the latest committed version of the ledger.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Version()
}

// Submit verifies the transition and commits it.
func (l *Ledger) Submit(ctx context.Context, stx *sigs.SignedTransition) (*Finalized, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.commit(stx)
	if err != nil {
		l.metrics.observe(err)
		l.logger.Info("transition rejected", "err", err)
		return nil, err
	}
	l.metrics.observe(nil)
	l.logger.Info("transition committed",
		"tx", obligation.ShortID(f.TxID),
		"height", f.Height)
	return f, nil
}

func (l *Ledger) commit(stx *sigs.SignedTransition) (*Finalized, error) {
	tx := stx.GetTx()
	if tx == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transition")
	}
	if tx.Notary != l.name {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "transition bound to notary %q", tx.Notary)
	}
	if err := sigs.VerifyTransition(sigs.KeyVerifier{}, stx, l.chainID); err != nil {
		return nil, err
	}
	txID, err := tx.ID()
	if err != nil {
		return nil, err
	}
	if l.tree.Has(txKey(txID)) {
		return nil, errors.Wrapf(errors.ErrConflict, "transition %X already committed", txID)
	}
	for i, ref := range tx.Consumed {
		if err := l.checkUnspent(ref); err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
	}

	f := &Finalized{
		TxID:   txID,
		Tx:     stx,
		Notary: l.name,
		Height: l.tree.Version() + 1,
	}
	raw, err := proto.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	for _, ref := range tx.Consumed {
		l.tree.Set(spentKey(ref), txID)
	}
	l.tree.Set(txKey(txID), raw)
	hash, version, err := l.tree.SaveVersion()
	if err != nil {
		l.tree.Rollback()
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	res := *f
	res.Height = version
	res.RootHash = hash
	return &res, nil
}

// checkUnspent returns an error unless the reference points to an existing,
// not yet consumed record.
func (l *Ledger) checkUnspent(ref *obligation.StateRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if l.tree.Has(spentKey(ref)) {
		return errors.Wrap(errors.ErrConflict, "input already consumed")
	}
	f, err := l.get(ref.TxID)
	if err != nil {
		return err
	}
	if int(ref.Index) >= len(f.Tx.GetTx().GetProduced()) {
		return errors.Wrapf(errors.ErrNotFound, "output %d", ref.Index)
	}
	return nil
}

// Get returns the committed transition with given ID.
func (l *Ledger) Get(txID []byte) (*Finalized, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(txID)
}

func (l *Ledger) get(txID []byte) (*Finalized, error) {
	_, raw := l.tree.Get(txKey(txID))
	if raw == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "transition %X", txID)
	}
	var f Finalized
	if err := proto.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &f, nil
}

// IsSpent returns true if the record was consumed by a committed
// transition.
func (l *Ledger) IsSpent(ref *obligation.StateRef) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Has(spentKey(ref))
}

func txKey(txID []byte) []byte {
	return append([]byte(txPrefix), txID...)
}

func spentKey(ref *obligation.StateRef) []byte {
	return append([]byte(spentPrefix), ref.Key()...)
}
