package notary

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/iou/x/sigs"
)

// Finalized is a transition committed by the notary.
type Finalized struct {
	TxID []byte                 `protobuf:"bytes,1,opt,name=tx_id,json=txId,proto3" json:"tx_id,omitempty"`
	Tx   *sigs.SignedTransition `protobuf:"bytes,2,opt,name=tx,proto3" json:"tx,omitempty"`
	// Notary is the name of the notary that committed the transition.
	Notary string `protobuf:"bytes,3,opt,name=notary,proto3" json:"notary,omitempty"`
	// Height is the ledger version that contains the transition.
	Height int64 `protobuf:"varint,4,opt,name=height,proto3" json:"height,omitempty"`
	// RootHash is the ledger hash right after the commit. It is only set
	// on the result of a submission.
	RootHash []byte `protobuf:"bytes,5,opt,name=root_hash,json=rootHash,proto3" json:"root_hash,omitempty"`
}

func (m *Finalized) Reset()         { *m = Finalized{} }
func (m *Finalized) String() string { return proto.CompactTextString(m) }
func (*Finalized) ProtoMessage()    {}

func (m *Finalized) GetTx() *sigs.SignedTransition {
	if m != nil {
		return m.Tx
	}
	return nil
}
