package crypto

import (
	"io"

	"github.com/iov-one/iou/errors"
	"golang.org/x/crypto/ed25519"
)

// GenerateKey returns a new private key. A nil rand uses crypto/rand.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "generate key: %s", err)
	}
	return &PrivateKey{Ed25519: priv}, nil
}

// KeyFromSeed derives a private key from a 32 byte seed. The same seed
// always produces the same key.
func KeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}, nil
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns the signature of given message.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.GetEd25519()) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	return &Signature{Ed25519: ed25519.Sign(p.Ed25519, message)}, nil
}

// PublicKey returns the key that verifies signatures of this key.
func (p *PrivateKey) PublicKey() *PublicKey {
	if len(p.GetEd25519()) != ed25519.PrivateKeySize {
		return nil
	}
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Verify returns true if sig is a signature of message made by the owner
// of this key. Malformed keys and signatures never verify.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	raw := sig.GetEd25519()
	if len(raw) != ed25519.SignatureSize || len(p.GetEd25519()) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(p.Ed25519, message, raw)
}
