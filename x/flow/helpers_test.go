package flow

import (
	"context"
	"sync"
	"testing"

	"github.com/iov-one/iou/ioutest"
	"github.com/iov-one/iou/store"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/session"
	"github.com/iov-one/iou/x/sigs"
	"github.com/iov-one/iou/x/vault"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const chainID = "flow-test-chain"

// countingNotary records every submission before passing it on.
type countingNotary struct {
	notary.Service

	mu    sync.Mutex
	count int
}

func (n *countingNotary) Submit(ctx context.Context, stx *sigs.SignedTransition) (*notary.Finalized, error) {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
	return n.Service.Submit(ctx, stx)
}

func (n *countingNotary) Submissions() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// stateAtSubmit remembers the last state entered by a flow at the moment
// the notary is asked to finalize.
type stateAtSubmit struct {
	notary.Service
	states *recorder
	seen   []State
}

func (n *stateAtSubmit) Submit(ctx context.Context, stx *sigs.SignedTransition) (*notary.Finalized, error) {
	got := n.states.States()
	n.seen = append(n.seen, got[len(got)-1])
	return n.Service.Submit(ctx, stx)
}

// recorder collects states entered by a flow.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) Progress(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

// testNetwork wires alice, bob and charlie with a notary over an in-memory
// network.
type testNetwork struct {
	net    *session.Network
	dir    *identity.StaticDirectory
	notary *countingNotary
	keys   map[string]identity.Keyring
	vaults map[string]*vault.Vault
}

func newTestNetwork(t testing.TB) *testNetwork {
	t.Helper()
	keys := map[string]identity.Keyring{
		"alice":   ioutest.NewParty("alice"),
		"bob":     ioutest.NewParty("bob"),
		"charlie": ioutest.NewParty("charlie"),
	}
	ledger, err := notary.NewLedger("notary", chainID, dbm.NewMemDB())
	if err != nil {
		t.Fatalf("cannot create ledger: %s", err)
	}
	vaults := make(map[string]*vault.Vault)
	for name, k := range keys {
		vaults[name] = vault.New(k.MyIdentity(), store.MemStore())
	}
	return &testNetwork{
		net:    session.NewNetwork(),
		dir:    ioutest.NewDirectory(keys["alice"], keys["bob"], keys["charlie"]),
		notary: &countingNotary{Service: ledger},
		keys:   keys,
		vaults: vaults,
	}
}

func (tn *testNetwork) proposer(name string, transport session.Transport, opts ...Option) *Proposer {
	if transport == nil {
		transport = tn.net.Transport(name)
	}
	opts = append([]Option{WithVault(tn.vaults[name])}, opts...)
	return NewProposer(tn.keys[name], tn.dir, transport, tn.notary, chainID, opts...)
}

func (tn *testNetwork) responder(name string, opts ...Option) *Responder {
	opts = append([]Option{WithVault(tn.vaults[name])}, opts...)
	return NewResponder(tn.keys[name], tn.dir, chainID, opts...)
}

type result struct {
	f   *notary.Finalized
	err error
}

// respondOnce accepts a single session on behalf of given party and
// responds to it in the background.
func (tn *testNetwork) respondOnce(t testing.TB, ctx context.Context, r *Responder, name string) <-chan result {
	t.Helper()
	l, err := tn.net.Listen(name)
	if err != nil {
		t.Fatalf("cannot listen: %s", err)
	}
	out := make(chan result, 1)
	go func() {
		sess, err := l.Accept(ctx)
		if err != nil {
			out <- result{err: err}
			return
		}
		f, err := r.Respond(ctx, sess)
		out <- result{f: f, err: err}
	}()
	return out
}
