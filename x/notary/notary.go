package notary

import (
	"bytes"
	"context"

	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/obligation"
	"github.com/iov-one/iou/x/sigs"
)

// Service is the finality and ordering service. It commits fully signed
// transitions and guarantees that no two committed transitions consume the
// same record.
type Service interface {
	// Name returns the name that transitions bound to this service carry.
	Name() string
	// Submit commits the transition or returns an error explaining why it
	// cannot be committed. Submitting a transition that was already
	// committed is an ErrConflict.
	Submit(ctx context.Context, stx *sigs.SignedTransition) (*Finalized, error)
}

// Validate ensures the finalized record is consistent: its ID matches the
// transition content and the transition is bound to the notary that
// committed it. Signatures are not verified.
func (f *Finalized) Validate() error {
	if f == nil {
		return errors.Wrap(errors.ErrEmpty, "finalized")
	}
	tx := f.GetTx().GetTx()
	id, err := tx.ID()
	if err != nil {
		return errors.Field("Tx", err, "")
	}
	if !bytes.Equal(id, f.TxID) {
		return errors.Field("TxID", errors.ErrModel, "does not match the transition")
	}
	if f.Notary == "" || f.Notary != tx.Notary {
		return errors.Field("Notary", errors.ErrModel, "transition bound to %q", tx.Notary)
	}
	if f.Height <= 0 {
		return errors.Field("Height", errors.ErrModel, "must be positive")
	}
	return nil
}

// Outputs returns references to all records produced by the finalized
// transition.
func (f *Finalized) Outputs() []*obligation.StateRef {
	produced := f.GetTx().GetTx().GetProduced()
	refs := make([]*obligation.StateRef, len(produced))
	for i := range produced {
		refs[i] = obligation.Output(f.TxID, i)
	}
	return refs
}
