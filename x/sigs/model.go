package sigs

import (
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/obligation"
)

// Validate ensures the signature is well formed. It does not verify it.
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	var errs error
	if len(s.Pubkey.GetEd25519()) == 0 {
		errs = errors.AppendField(errs, "Pubkey", errors.ErrEmpty)
	}
	if len(s.Signature.GetEd25519()) == 0 {
		errs = errors.AppendField(errs, "Signature", errors.ErrEmpty)
	}
	return errs
}

// NewSignedTransition wraps a transition that was not signed yet.
func NewSignedTransition(tx *obligation.Transition) *SignedTransition {
	return &SignedTransition{Tx: tx}
}

// Copy returns a deep copy of the signed transition. Signatures of the copy
// can be appended without affecting the original.
func (s *SignedTransition) Copy() *SignedTransition {
	if s == nil {
		return nil
	}
	cpy := &SignedTransition{Tx: s.Tx.Copy()}
	for _, sig := range s.Signatures {
		cpy.Signatures = append(cpy.Signatures, &StdSignature{
			Pubkey:    sig.Pubkey.Clone(),
			Signature: &crypto.Signature{Ed25519: append([]byte(nil), sig.Signature.GetEd25519()...)},
		})
	}
	return cpy
}

// Signers returns the keys of all attached signatures, without duplicates.
// Signatures are not verified, use VerifySignatures for that.
func (s *SignedTransition) Signers() []*crypto.PublicKey {
	var keys []*crypto.PublicKey
	for _, sig := range s.GetSignatures() {
		if !containsKey(keys, sig.Pubkey) {
			keys = append(keys, sig.Pubkey)
		}
	}
	return keys
}

// HasSigner returns true if a signature of given key is attached.
func (s *SignedTransition) HasSigner(pub *crypto.PublicKey) bool {
	return containsKey(s.Signers(), pub)
}

func containsKey(keys []*crypto.PublicKey, key *crypto.PublicKey) bool {
	for _, k := range keys {
		if k.Equals(key) {
			return true
		}
	}
	return false
}
