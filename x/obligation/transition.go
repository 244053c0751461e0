package obligation

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
)

// Bytes returns the canonical serialization of the transition. This is what
// signatures cover.
func (tx *Transition) Bytes() ([]byte, error) {
	if tx == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transition")
	}
	raw, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return raw, nil
}

// ID returns the identifier of the transition: a hash of its content. Any
// change of the content produces a different ID.
func (tx *Transition) ID() ([]byte, error) {
	raw, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(raw)
	return h[:], nil
}

// MustID is like ID but panics on error. Use it only for transitions that
// are known to serialize.
func (tx *Transition) MustID() []byte {
	id, err := tx.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// ShortID returns a hex encoded prefix of the transition ID, suitable for
// logs.
func ShortID(id []byte) string {
	if len(id) > 6 {
		id = id[:6]
	}
	return hex.EncodeToString(id)
}

// Copy returns a deep copy of this transition.
func (tx *Transition) Copy() *Transition {
	if tx == nil {
		return nil
	}
	cpy := &Transition{
		Action: tx.Action,
		Notary: tx.Notary,
	}
	for _, ref := range tx.Consumed {
		cpy.Consumed = append(cpy.Consumed, &StateRef{
			TxID:  append([]byte(nil), ref.TxID...),
			Index: ref.Index,
		})
	}
	for _, o := range tx.Produced {
		cpy.Produced = append(cpy.Produced, o.Copy())
	}
	for _, k := range tx.RequiredSigners {
		cpy.RequiredSigners = append(cpy.RequiredSigners, k.Clone())
	}
	return cpy
}

// Output returns a reference to the produced record under given index.
func Output(txID []byte, index int) *StateRef {
	return &StateRef{TxID: txID, Index: int32(index)}
}

// Key returns the byte representation of the reference, usable as a
// storage key.
func (r *StateRef) Key() []byte {
	key := make([]byte, 0, len(r.TxID)+4)
	key = append(key, r.TxID...)
	i := uint32(r.Index)
	return append(key, byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
}

// Validate returns an error if the reference cannot point to any output.
func (r *StateRef) Validate() error {
	if r == nil {
		return errors.Wrap(errors.ErrEmpty, "state reference")
	}
	if len(r.TxID) != sha256.Size {
		return errors.Field("TxID", errors.ErrInput, "invalid transition id length %d", len(r.TxID))
	}
	if r.Index < 0 {
		return errors.Field("Index", errors.ErrInput, "negative index")
	}
	return nil
}

// keys returns a copy of given key list. Nil keys are dropped.
func keys(src []*crypto.PublicKey) []*crypto.PublicKey {
	res := make([]*crypto.PublicKey, 0, len(src))
	for _, k := range src {
		if k != nil {
			res = append(res, k.Clone())
		}
	}
	return res
}
