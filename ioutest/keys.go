package ioutest

import (
	"crypto/sha256"

	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/x/identity"
)

// NewKey returns a new random private key.
func NewKey() crypto.Signer {
	key, err := crypto.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return key
}

// SeedKey returns a private key deterministically derived from given name.
// The same name always produce the same key.
func SeedKey(name string) *crypto.PrivateKey {
	seed := sha256.Sum256([]byte(name))
	key, err := crypto.KeyFromSeed(seed[:])
	if err != nil {
		panic(err)
	}
	return key
}

// NewParty returns a keyring of a party with given name and a key derived
// from that name.
func NewParty(name string) identity.Keyring {
	return identity.NewKeyring(name, SeedKey(name))
}

// NewDirectory returns a network map containing all given parties. It
// panics on invalid input as it is meant to be used in tests only.
func NewDirectory(keyrings ...identity.Keyring) *identity.StaticDirectory {
	parties := make([]*identity.Party, len(keyrings))
	for i, k := range keyrings {
		parties[i] = k.MyIdentity()
	}
	dir, err := identity.NewDirectory(parties...)
	if err != nil {
		panic(err)
	}
	return dir
}
