package sigs

import (
	"crypto/sha512"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/obligation"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

/*
BuildSignBytes combines all info on the actual transition before signing

We use the following format:

version | len(chainID) | chainID      | signBytes
4bytes  | uint8        | ascii string | serialized transition

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string) ([]byte, error) {
	if !iou.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	output := make([]byte, 0, 4+1+len(chainID)+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, signBytes...)

	// now, we take the sha512 hash of the result,
	// so we have a constant length output to feed into eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a transition
func BuildSignBytesTx(tx *obligation.Transition, chainID string) ([]byte, error) {
	signBytes, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID)
}

// SignTx creates a signature for the given transition
func SignTx(signer crypto.Signer, tx *obligation.Transition, chainID string) (*StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}

// Sign appends a signature of the keyring owner to the transition. Appending
// a signature is the only change allowed on a transition that is being
// signed. Signing twice with the same key is a no-op.
func Sign(k identity.Keyring, stx *SignedTransition, chainID string) error {
	me := k.MyIdentity()
	if stx.HasSigner(me.PubKey) {
		return nil
	}
	signBytes, err := BuildSignBytesTx(stx.GetTx(), chainID)
	if err != nil {
		return err
	}
	sig, err := k.Sign(signBytes)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	stx.Signatures = append(stx.Signatures, &StdSignature{
		Pubkey:    me.PubKey,
		Signature: sig,
	})
	return nil
}

// Verifier checks that a signature of a message was created by the owner of
// a public key. identity.Keyring is a Verifier.
type Verifier interface {
	Verify(message []byte, sig *crypto.Signature, pub *crypto.PublicKey) bool
}

// KeyVerifier verifies signatures with the public key alone. It serves
// parties that hold no keyring, such as the notary.
type KeyVerifier struct{}

var _ Verifier = KeyVerifier{}
var _ Verifier = identity.Keyring(nil)

// Verify returns true if the signature is valid for given key.
func (KeyVerifier) Verify(message []byte, sig *crypto.Signature, pub *crypto.PublicKey) bool {
	return pub != nil && pub.Verify(message, sig)
}

// VerifySignature checks one signature against the sign bytes and returns
// the key that created it.
func VerifySignature(v Verifier, sig *StdSignature, signBytes []byte, chainID string) (*crypto.PublicKey, error) {
	if err := sig.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	toSign, err := BuildSignBytes(signBytes, chainID)
	if err != nil {
		return nil, err
	}
	if !v.Verify(toSign, sig.Signature, sig.Pubkey) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return sig.Pubkey, nil
}

// VerifySignatures checks all the signatures on the transition.
//
// returns list of signer keys (possibly empty, without duplicates),
// or error if any signature is invalid
func VerifySignatures(v Verifier, stx *SignedTransition, chainID string) ([]*crypto.PublicKey, error) {
	if stx.GetTx() == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transition")
	}
	bz, err := stx.Tx.Bytes()
	if err != nil {
		return nil, err
	}
	signers := make([]*crypto.PublicKey, 0, len(stx.Signatures))
	for i, sig := range stx.Signatures {
		signer, err := VerifySignature(v, sig, bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		if !containsKey(signers, signer) {
			signers = append(signers, signer)
		}
	}
	return signers, nil
}

// VerifyTransition verifies all signatures and ensures that the transition
// is legal and signed by all required signers.
func VerifyTransition(v Verifier, stx *SignedTransition, chainID string) error {
	signers, err := VerifySignatures(v, stx, chainID)
	if err != nil {
		return err
	}
	return obligation.VerifyComplete(stx.Tx, signers)
}
