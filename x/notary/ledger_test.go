package notary

import (
	"context"
	"testing"

	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/ioutest"
	"github.com/iov-one/iou/ioutest/assert"
	"github.com/iov-one/iou/x/obligation"
	"github.com/iov-one/iou/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const chainID = "notary-test-chain"

func signedIssue(t *testing.T, amount int64, notary string, signers ...string) *sigs.SignedTransition {
	t.Helper()
	lender := ioutest.NewParty("alice").MyIdentity()
	borrower := ioutest.NewParty("bob").MyIdentity()
	tx, err := obligation.BuildIssueProposal(amount, lender, borrower, notary)
	assert.Nil(t, err)
	stx := sigs.NewSignedTransition(tx)
	for _, name := range signers {
		assert.Nil(t, sigs.Sign(ioutest.NewParty(name), stx, chainID))
	}
	return stx
}

func newLedger(t *testing.T, db dbm.DB, opts ...Option) *Ledger {
	t.Helper()
	l, err := NewLedger("notary", chainID, db, opts...)
	assert.Nil(t, err)
	return l
}

func TestLedgerSubmit(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		stx     *sigs.SignedTransition
		wantErr *errors.Error
	}{
		"fully signed": {
			stx: signedIssue(t, 100, "notary", "alice", "bob"),
		},
		"missing borrower signature": {
			stx:     signedIssue(t, 100, "notary", "alice"),
			wantErr: errors.ErrUnauthorized,
		},
		"stranger instead of the borrower": {
			stx:     signedIssue(t, 100, "notary", "alice", "charlie"),
			wantErr: errors.ErrUnauthorized,
		},
		"bound to another notary": {
			stx:     signedIssue(t, 100, "other", "alice", "bob"),
			wantErr: errors.ErrUnauthorized,
		},
		"empty": {
			stx:     sigs.NewSignedTransition(nil),
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, dbm.NewMemDB())
			f, err := l.Submit(ctx, tc.stx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, int64(0), l.Height())
				return
			}
			assert.Nil(t, err)
			assert.Nil(t, f.Validate())
			assert.Equal(t, int64(1), f.Height)
			assert.Equal(t, "notary", f.Notary)
			assert.Equal(t, 32, len(f.RootHash))
			assert.Equal(t, tc.stx.Tx.MustID(), f.TxID)
		})
	}
}

func TestLedgerTamperedSignature(t *testing.T) {
	stx := signedIssue(t, 100, "notary", "alice", "bob")
	stx.Tx.Produced[0].Amount = 1

	l := newLedger(t, dbm.NewMemDB())
	_, err := l.Submit(context.Background(), stx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestLedgerDuplicateSubmission(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	assert.Nil(t, err)
	l := newLedger(t, dbm.NewMemDB(), WithMetrics(m))

	stx := signedIssue(t, 100, "notary", "alice", "bob")
	first, err := l.Submit(ctx, stx)
	assert.Nil(t, err)

	// Identical content submitted again is a conflict.
	_, err = l.Submit(ctx, stx.Copy())
	assert.IsErr(t, errors.ErrConflict, err)
	assert.Equal(t, int64(1), l.Height())

	// A different issue of the same amount is a different transition.
	second, err := l.Submit(ctx, signedIssue(t, 100, "notary", "alice", "bob"))
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Height)
	if string(first.RootHash) == string(second.RootHash) {
		t.Fatal("ledger hash did not change")
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("committed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("conflict")))

	_, err = NewMetrics(reg)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestLedgerPersistence(t *testing.T) {
	ctx := context.Background()
	db := dbm.NewMemDB()
	stx := signedIssue(t, 7, "notary", "alice", "bob")

	f, err := newLedger(t, db).Submit(ctx, stx)
	assert.Nil(t, err)

	reloaded := newLedger(t, db)
	assert.Equal(t, int64(1), reloaded.Height())

	got, err := reloaded.Get(f.TxID)
	assert.Nil(t, err)
	assert.Equal(t, f.TxID, got.TxID)
	assert.Equal(t, f.Height, got.Height)
	assert.Nil(t, sigs.VerifyTransition(sigs.KeyVerifier{}, got.Tx, chainID))

	_, err = reloaded.Submit(ctx, stx)
	assert.IsErr(t, errors.ErrConflict, err)

	_, err = reloaded.Get(make([]byte, 32))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestLedgerCheckUnspent(t *testing.T) {
	l := newLedger(t, dbm.NewMemDB())
	f, err := l.Submit(context.Background(), signedIssue(t, 5, "notary", "alice", "bob"))
	assert.Nil(t, err)

	outputs := f.Outputs()
	assert.Equal(t, 1, len(outputs))
	assert.Nil(t, l.checkUnspent(outputs[0]))
	assert.IsErr(t, errors.ErrNotFound, l.checkUnspent(obligation.Output(f.TxID, 1)))
	assert.IsErr(t, errors.ErrNotFound, l.checkUnspent(obligation.Output(make([]byte, 32), 0)))
	assert.IsErr(t, errors.ErrInput, l.checkUnspent(obligation.Output([]byte("x"), 0)))

	l.tree.Set(spentKey(outputs[0]), []byte("spender"))
	assert.IsErr(t, errors.ErrConflict, l.checkUnspent(outputs[0]))
	if !l.IsSpent(outputs[0]) {
		t.Fatal("output not reported as spent")
	}
}

func TestNewLedger(t *testing.T) {
	_, err := NewLedger("", chainID, dbm.NewMemDB())
	assert.IsErr(t, errors.ErrEmpty, err)
	_, err = NewLedger("notary", "x", dbm.NewMemDB())
	assert.IsErr(t, errors.ErrInput, err)
}

func TestFinalizedValidate(t *testing.T) {
	l := newLedger(t, dbm.NewMemDB())
	f, err := l.Submit(context.Background(), signedIssue(t, 5, "notary", "alice", "bob"))
	assert.Nil(t, err)
	assert.Nil(t, f.Validate())

	changed := *f
	changed.TxID = make([]byte, 32)
	assert.FieldError(t, changed.Validate(), "TxID", errors.ErrModel)

	changed = *f
	changed.Notary = "other"
	assert.FieldError(t, changed.Validate(), "Notary", errors.ErrModel)

	changed = *f
	changed.Height = 0
	assert.FieldError(t, changed.Validate(), "Height", errors.ErrModel)

	assert.IsErr(t, errors.ErrEmpty, (*Finalized)(nil).Validate())
}
