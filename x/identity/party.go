package identity

import (
	"fmt"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"golang.org/x/crypto/ed25519"
)

// NewParty returns a party identified by given key.
func NewParty(name string, pub *crypto.PublicKey) *Party {
	return &Party{Name: name, PubKey: pub}
}

// Validate returns an error if the party cannot be used to sign or to be
// referenced by an obligation.
func (p *Party) Validate() error {
	if p == nil {
		return errors.Wrap(errors.ErrEmpty, "party")
	}
	var errs error
	if p.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	if len(p.PubKey.GetEd25519()) != ed25519.PublicKeySize {
		errs = errors.AppendField(errs, "PubKey", errors.ErrInput)
	}
	return errs
}

// Equals returns true if both parties are controlled by the same key. The
// name is only a label and does not take part in the comparison.
func (p *Party) Equals(o *Party) bool {
	if p == nil || o == nil {
		return false
	}
	return p.PubKey.Equals(o.PubKey)
}

// Condition returns the signature condition of this party.
func (p *Party) Condition() iou.Condition {
	return p.GetPubKey().Condition()
}

// Address returns the address derived from the party key.
func (p *Party) Address() iou.Address {
	return p.GetPubKey().Address()
}

// Bech32 returns the human friendly representation of the party address.
func (p *Party) Bech32() string {
	addr := p.Address()
	if addr == nil {
		return ""
	}
	s, err := EncodeAddress(addr)
	if err != nil {
		return addr.String()
	}
	return s
}

// Clone returns a deep copy of this party.
func (p *Party) Clone() *Party {
	if p == nil {
		return nil
	}
	return &Party{Name: p.Name, PubKey: p.PubKey.Clone()}
}

func (p *Party) String() string {
	if p == nil {
		return "(nil)"
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Bech32())
}
