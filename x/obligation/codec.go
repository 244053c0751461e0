package obligation

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/x/identity"
)

// Obligation is an IOU: the borrower owes the lender the amount.
type Obligation struct {
	// ID is assigned once when the obligation is issued and never changes.
	ID []byte `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	// ExternalID is an optional reference assigned by the issuer.
	ExternalID string          `protobuf:"bytes,2,opt,name=external_id,json=externalId,proto3" json:"external_id,omitempty"`
	Amount     int64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Lender     *identity.Party `protobuf:"bytes,4,opt,name=lender,proto3" json:"lender,omitempty"`
	Borrower   *identity.Party `protobuf:"bytes,5,opt,name=borrower,proto3" json:"borrower,omitempty"`
}

func (m *Obligation) Reset()         { *m = Obligation{} }
func (m *Obligation) String() string { return proto.CompactTextString(m) }
func (*Obligation) ProtoMessage()    {}

func (m *Obligation) GetAmount() int64 {
	if m != nil {
		return m.Amount
	}
	return 0
}

func (m *Obligation) GetLender() *identity.Party {
	if m != nil {
		return m.Lender
	}
	return nil
}

func (m *Obligation) GetBorrower() *identity.Party {
	if m != nil {
		return m.Borrower
	}
	return nil
}

// StateRef points to an output of a committed transition.
type StateRef struct {
	TxID  []byte `protobuf:"bytes,1,opt,name=tx_id,json=txId,proto3" json:"tx_id,omitempty"`
	Index int32  `protobuf:"varint,2,opt,name=index,proto3" json:"index,omitempty"`
}

func (m *StateRef) Reset()         { *m = StateRef{} }
func (m *StateRef) String() string { return proto.CompactTextString(m) }
func (*StateRef) ProtoMessage()    {}

// Transition is a proposed update of the ledger. Signatures are kept outside
// so that they can cover the whole content.
type Transition struct {
	Consumed        []*StateRef         `protobuf:"bytes,1,rep,name=consumed,proto3" json:"consumed,omitempty"`
	Produced        []*Obligation       `protobuf:"bytes,2,rep,name=produced,proto3" json:"produced,omitempty"`
	Action          Action              `protobuf:"varint,3,opt,name=action,proto3" json:"action,omitempty"`
	RequiredSigners []*crypto.PublicKey `protobuf:"bytes,4,rep,name=required_signers,json=requiredSigners,proto3" json:"required_signers,omitempty"`
	// Notary is the name of the finality service this transition is bound to.
	Notary string `protobuf:"bytes,5,opt,name=notary,proto3" json:"notary,omitempty"`
}

func (m *Transition) Reset()         { *m = Transition{} }
func (m *Transition) String() string { return proto.CompactTextString(m) }
func (*Transition) ProtoMessage()    {}

func (m *Transition) GetProduced() []*Obligation {
	if m != nil {
		return m.Produced
	}
	return nil
}

func (m *Transition) GetConsumed() []*StateRef {
	if m != nil {
		return m.Consumed
	}
	return nil
}
