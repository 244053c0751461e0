package crypto

import (
	"github.com/gogo/protobuf/proto"
)

// PublicKey is the serializable form of a public key. Only ed25519 keys are
// supported.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PublicKey) Reset()         { *m = PublicKey{} }
func (m *PublicKey) String() string { return proto.CompactTextString(m) }
func (*PublicKey) ProtoMessage()    {}

// GetEd25519 returns the raw key bytes or nil.
func (m *PublicKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

// PrivateKey is the serializable form of a private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PrivateKey) Reset()         { *m = PrivateKey{} }
func (m *PrivateKey) String() string { return proto.CompactTextString(m) }
func (*PrivateKey) ProtoMessage()    {}

// GetEd25519 returns the raw key bytes or nil.
func (m *PrivateKey) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}

// Signature is the serializable form of a signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *Signature) Reset()         { *m = Signature{} }
func (m *Signature) String() string { return proto.CompactTextString(m) }
func (*Signature) ProtoMessage()    {}

// GetEd25519 returns the raw signature bytes or nil.
func (m *Signature) GetEd25519() []byte {
	if m != nil {
		return m.Ed25519
	}
	return nil
}
