package identity

import (
	"github.com/iov-one/iou/crypto"
)

// Keyring is the identity and key service of the local party. Private keys
// never leave the keyring.
type Keyring interface {
	// MyIdentity returns the party that this keyring signs for.
	MyIdentity() *Party
	// Sign returns a signature of given bytes created with the party key.
	Sign(message []byte) (*crypto.Signature, error)
	// Verify returns true if the signature of the message was created by
	// the owner of given public key.
	Verify(message []byte, sig *crypto.Signature, pub *crypto.PublicKey) bool
}

// NewKeyring returns a keyring that signs with given signer on behalf of a
// party with given name.
func NewKeyring(name string, signer crypto.Signer) Keyring {
	return &localKeyring{
		party:  NewParty(name, signer.PublicKey()),
		signer: signer,
	}
}

type localKeyring struct {
	party  *Party
	signer crypto.Signer
}

func (k *localKeyring) MyIdentity() *Party {
	return k.party.Clone()
}

func (k *localKeyring) Sign(message []byte) (*crypto.Signature, error) {
	return k.signer.Sign(message)
}

func (k *localKeyring) Verify(message []byte, sig *crypto.Signature, pub *crypto.PublicKey) bool {
	if pub == nil {
		return false
	}
	return pub.Verify(message, sig)
}
