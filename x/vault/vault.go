package vault

import (
	"bytes"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/store"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/obligation"
)

var txPrefix = []byte("tx:")

// Vault keeps the finalized transitions a party participates in.
type Vault struct {
	// Save is a read-then-write operation.
	mu    sync.Mutex
	owner *identity.Party
	kv    store.KVStore
}

// New returns a vault of given party, backed by given store.
func New(owner *identity.Party, kv store.KVStore) *Vault {
	return &Vault{owner: owner.Clone(), kv: kv}
}

// Owner returns the party this vault belongs to.
func (v *Vault) Owner() *identity.Party {
	return v.owner.Clone()
}

// Save stores a finalized transition. Saving the same transition again is a
// no-op. Saving a different transition under an already used ID is an
// ErrConflict.
func (v *Vault) Save(f *notary.Finalized) error {
	if err := f.Validate(); err != nil {
		return errors.Wrap(err, "finalized")
	}
	if !v.participates(f) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not a participant", v.owner.GetName())
	}
	raw, err := proto.Marshal(f)
	if err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	key := append(append([]byte(nil), txPrefix...), f.TxID...)
	prev, err := v.get(key)
	switch {
	case errors.ErrNotFound.Is(err):
		if err := v.kv.Set(key, raw); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil
	case err != nil:
		return err
	}

	same, err := sameTransition(prev, f)
	if err != nil {
		return err
	}
	if !same {
		return errors.Wrapf(errors.ErrConflict, "transition %X", f.TxID)
	}
	return nil
}

// participates returns true if the owner is a participant of any record
// produced by the transition.
func (v *Vault) participates(f *notary.Finalized) bool {
	for _, o := range f.GetTx().GetTx().GetProduced() {
		for _, p := range o.Participants() {
			if p.Equals(v.owner) {
				return true
			}
		}
	}
	return false
}

// Get returns the finalized transition with given ID.
func (v *Vault) Get(txID []byte) (*notary.Finalized, error) {
	return v.get(append(append([]byte(nil), txPrefix...), txID...))
}

func (v *Vault) get(key []byte) (*notary.Finalized, error) {
	raw, err := v.kv.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "transition %X", key[len(txPrefix):])
	}
	var f notary.Finalized
	if err := proto.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &f, nil
}

// State is a record stored in the vault together with its reference.
type State struct {
	Ref        *obligation.StateRef
	Obligation *obligation.Obligation
}

// Obligations returns all records produced by the stored transitions,
// ordered by transition ID.
func (v *Vault) Obligations() ([]State, error) {
	it, err := v.kv.Iterator(txPrefix, store.PrefixEnd(txPrefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	var res []State
	for ; it.Valid(); it.Next() {
		var f notary.Finalized
		if err := proto.Unmarshal(it.Value(), &f); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		refs := f.Outputs()
		for i, o := range f.Tx.GetTx().GetProduced() {
			res = append(res, State{Ref: refs[i], Obligation: o})
		}
	}
	return res, nil
}

func sameTransition(a, b *notary.Finalized) (bool, error) {
	ra, err := proto.Marshal(a.Tx)
	if err != nil {
		return false, errors.Wrap(errors.ErrType, err.Error())
	}
	rb, err := proto.Marshal(b.Tx)
	if err != nil {
		return false, errors.Wrap(errors.ErrType, err.Error())
	}
	return bytes.Equal(ra, rb) && a.Notary == b.Notary && a.Height == b.Height, nil
}
