package identity_test

import (
	"testing"

	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/ioutest"
	"github.com/iov-one/iou/ioutest/assert"
	"github.com/iov-one/iou/x/identity"
)

func TestNewDirectory(t *testing.T) {
	alice := ioutest.NewParty("alice").MyIdentity()
	bob := ioutest.NewParty("bob").MyIdentity()

	cases := map[string]struct {
		parties []*identity.Party
		wantErr *errors.Error
	}{
		"empty directory": {
			parties: nil,
		},
		"two parties": {
			parties: []*identity.Party{alice, bob},
		},
		"duplicated name": {
			parties: []*identity.Party{alice, identity.NewParty("alice", bob.PubKey)},
			wantErr: errors.ErrDuplicate,
		},
		"duplicated key": {
			parties: []*identity.Party{alice, identity.NewParty("alice2", alice.PubKey)},
			wantErr: errors.ErrDuplicate,
		},
		"invalid party": {
			parties: []*identity.Party{identity.NewParty("", alice.PubKey)},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := identity.NewDirectory(tc.parties...)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestDirectoryLookup(t *testing.T) {
	alice := ioutest.NewParty("alice")
	bob := ioutest.NewParty("bob")
	dir := ioutest.NewDirectory(bob, alice)

	p, err := dir.Lookup("alice")
	assert.Nil(t, err)
	if !p.Equals(alice.MyIdentity()) {
		t.Fatalf("unexpected party: %s", p)
	}

	p, err = dir.ByKey(bob.MyIdentity().PubKey)
	assert.Nil(t, err)
	assert.Equal(t, "bob", p.Name)

	_, err = dir.Lookup("charlie")
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = dir.ByKey(ioutest.SeedKey("charlie").PublicKey())
	assert.IsErr(t, errors.ErrNotFound, err)

	all := dir.Parties()
	assert.Equal(t, 2, len(all))
	assert.Equal(t, "alice", all[0].Name)
	assert.Equal(t, "bob", all[1].Name)

	// Returned values must not be able to modify the directory.
	all[0].Name = "mallory"
	p, err = dir.Lookup("alice")
	assert.Nil(t, err)
	assert.Equal(t, "alice", p.Name)
}

func TestKeyring(t *testing.T) {
	alice := ioutest.NewParty("alice")
	bob := ioutest.NewParty("bob")
	msg := []byte("pay to the order of bob")

	sig, err := alice.Sign(msg)
	assert.Nil(t, err)

	me := alice.MyIdentity()
	assert.Equal(t, "alice", me.Name)
	if !alice.Verify(msg, sig, me.PubKey) {
		t.Fatal("signature not verified")
	}
	if bob.Verify(msg, sig, bob.MyIdentity().PubKey) {
		t.Fatal("signature verified against a wrong key")
	}
	if alice.Verify([]byte("pay to the order of mallory"), sig, me.PubKey) {
		t.Fatal("signature verified against a wrong message")
	}
	if alice.Verify(msg, sig, nil) {
		t.Fatal("signature verified without a key")
	}
}
