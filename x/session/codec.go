package session

import (
	"github.com/gogo/protobuf/proto"
)

// Message is a single frame exchanged between two parties.
type Message struct {
	Kind Kind `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	// From is the name of the sending party.
	From string `protobuf:"bytes,2,opt,name=from,proto3" json:"from,omitempty"`
	// Payload is a proto encoded signed transition or finalized record.
	Payload []byte `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
	// Code and Reason describe a rejection.
	Code   uint32 `protobuf:"varint,4,opt,name=code,proto3" json:"code,omitempty"`
	Reason string `protobuf:"bytes,5,opt,name=reason,proto3" json:"reason,omitempty"`
}

func (m *Message) Reset()         { *m = Message{} }
func (m *Message) String() string { return proto.CompactTextString(m) }
func (*Message) ProtoMessage()    {}
