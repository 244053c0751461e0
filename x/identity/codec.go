package identity

import (
	"github.com/iov-one/iou/crypto"
)

// Party is a participant of the ledger: a human readable name bound to the
// public key that the party signs with.
type Party struct {
	Name   string            `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	PubKey *crypto.PublicKey `protobuf:"bytes,2,opt,name=pub_key,json=pubKey,proto3" json:"pub_key,omitempty"`
}

func (m *Party) Reset()      { *m = Party{} }
func (*Party) ProtoMessage() {}

// GetName returns the name or an empty string.
func (m *Party) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

// GetPubKey returns the public key or nil.
func (m *Party) GetPubKey() *crypto.PublicKey {
	if m != nil {
		return m.PubKey
	}
	return nil
}
