package crypto

import (
	"bytes"

	"github.com/iov-one/iou"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() iou.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var _ PubKey = (*PublicKey)(nil)

// Condition encodes the public key into a permission. Returns nil for an
// empty key.
func (p *PublicKey) Condition() iou.Condition {
	if len(p.GetEd25519()) == 0 {
		return nil
	}
	return iou.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the condition of this key or nil.
func (p *PublicKey) Address() iou.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Equals returns true if both keys hold the same bytes.
func (p *PublicKey) Equals(o *PublicKey) bool {
	return len(p.GetEd25519()) > 0 && bytes.Equal(p.GetEd25519(), o.GetEd25519())
}

// Clone returns a deep copy of this key.
func (p *PublicKey) Clone() *PublicKey {
	if p == nil {
		return nil
	}
	return &PublicKey{Ed25519: append([]byte(nil), p.Ed25519...)}
}
