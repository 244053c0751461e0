package obligation

import (
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
)

// VerifyStructure returns an error if the transition is not a valid ledger
// update, ignoring signatures. It is safe to call any number of times and
// never modifies the transition.
//
// For an issue transition the checks are, in order: no consumed records,
// exactly one produced record, a valid produced record. Finally all
// participants must be declared as required signers and the notary must be
// set.
func VerifyStructure(tx *Transition) error {
	_, err := verify(tx)
	return err
}

// VerifyComplete runs all VerifyStructure checks and additionally ensures
// that every required signer is present in the provided key set.
func VerifyComplete(tx *Transition, provided []*crypto.PublicKey) error {
	required, err := verify(tx)
	if err != nil {
		return err
	}
	var missing int
	for _, k := range required {
		if !containsKey(provided, k) {
			missing++
		}
	}
	if missing != 0 {
		return errors.Wrapf(errors.ErrUnauthorized,
			"missing required signatures (%d of %d)", missing, len(required))
	}
	return nil
}

// RequiredSigners returns all keys that must sign given transition: the
// signers mandated by the action together with the declared ones.
func RequiredSigners(tx *Transition) ([]*crypto.PublicKey, error) {
	return verify(tx)
}

func verify(tx *Transition) ([]*crypto.PublicKey, error) {
	if tx == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transition")
	}
	r, ok := rulebook[tx.Action]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported action %s", tx.Action)
	}
	if err := r.structure(tx); err != nil {
		return nil, err
	}

	required := r.signers(tx)
	for _, k := range required {
		if !containsKey(tx.RequiredSigners, k) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "all participants must sign")
		}
	}
	if tx.Notary == "" {
		return nil, errors.Field("Notary", errors.ErrEmpty, "notary required")
	}

	for _, k := range tx.RequiredSigners {
		if !containsKey(required, k) {
			required = append(required, k)
		}
	}
	return keys(required), nil
}
