package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/x/obligation"
)

// StdSignature is a signature of a transition together with the key that
// verifies it.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *StdSignature) Reset()         { *m = StdSignature{} }
func (m *StdSignature) String() string { return proto.CompactTextString(m) }
func (*StdSignature) ProtoMessage()    {}

func (m *StdSignature) GetPubkey() *crypto.PublicKey {
	if m != nil {
		return m.Pubkey
	}
	return nil
}

func (m *StdSignature) GetSignature() *crypto.Signature {
	if m != nil {
		return m.Signature
	}
	return nil
}

// SignedTransition is a transition with all signatures collected so far.
type SignedTransition struct {
	Tx         *obligation.Transition `protobuf:"bytes,1,opt,name=tx,proto3" json:"tx,omitempty"`
	Signatures []*StdSignature        `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *SignedTransition) Reset()         { *m = SignedTransition{} }
func (m *SignedTransition) String() string { return proto.CompactTextString(m) }
func (*SignedTransition) ProtoMessage()    {}

func (m *SignedTransition) GetTx() *obligation.Transition {
	if m != nil {
		return m.Tx
	}
	return nil
}

func (m *SignedTransition) GetSignatures() []*StdSignature {
	if m != nil {
		return m.Signatures
	}
	return nil
}
