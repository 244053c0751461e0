package obligation

import (
	"github.com/google/uuid"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
)

// NewObligation returns a new obligation with a freshly allocated ID. No
// instance is returned unless all obligation invariants hold.
func NewObligation(amount int64, lender, borrower *identity.Party, externalID string) (*Obligation, error) {
	id := uuid.New()
	o := &Obligation{
		ID:         id[:],
		ExternalID: externalID,
		Amount:     amount,
		Lender:     lender.Clone(),
		Borrower:   borrower.Clone(),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate returns an error if any of the obligation invariants does not
// hold. The amount is checked first, party distinction last.
func (o *Obligation) Validate() error {
	if o == nil {
		return errors.Wrap(errors.ErrEmpty, "obligation")
	}
	if _, err := uuid.FromBytes(o.ID); err != nil {
		return errors.Field("ID", errors.ErrInput, "must be a uuid")
	}
	if o.Amount <= 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive, got %d", o.Amount)
	}
	if err := o.Lender.Validate(); err != nil {
		return errors.Field("Lender", err, "")
	}
	if err := o.Borrower.Validate(); err != nil {
		return errors.Field("Borrower", err, "")
	}
	if o.Lender.Equals(o.Borrower) {
		return errors.Field("Borrower", errors.ErrInput, "lender and borrower must differ")
	}
	return nil
}

// Participants returns the parties that must agree on any change of this
// obligation.
func (o *Obligation) Participants() []*identity.Party {
	return []*identity.Party{o.Lender, o.Borrower}
}

// participantKeys returns the keys of all participants.
func (o *Obligation) participantKeys() []*crypto.PublicKey {
	parts := o.Participants()
	keys := make([]*crypto.PublicKey, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, p.GetPubKey())
	}
	return keys
}

// LinearID returns the string form of the obligation ID.
func (o *Obligation) LinearID() string {
	id, err := uuid.FromBytes(o.ID)
	if err != nil {
		return ""
	}
	return id.String()
}

// Copy returns a deep copy of this obligation.
func (o *Obligation) Copy() *Obligation {
	if o == nil {
		return nil
	}
	return &Obligation{
		ID:         append([]byte(nil), o.ID...),
		ExternalID: o.ExternalID,
		Amount:     o.Amount,
		Lender:     o.Lender.Clone(),
		Borrower:   o.Borrower.Clone(),
	}
}
