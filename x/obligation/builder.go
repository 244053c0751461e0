package obligation

import (
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
)

// BuildIssueProposal returns an unsigned transition that issues a new
// obligation of the borrower towards the lender.
//
// An invalid amount or a lender equal to the borrower is reported right away
// and no transition is created.
func BuildIssueProposal(amount int64, lender, borrower *identity.Party, notary string) (*Transition, error) {
	o, err := NewObligation(amount, lender, borrower, "")
	if err != nil {
		return nil, err
	}
	tx := &Transition{
		Produced: []*Obligation{o},
		Action:   ActionIssue,
		RequiredSigners: []*crypto.PublicKey{
			lender.PubKey.Clone(),
			borrower.PubKey.Clone(),
		},
		Notary: notary,
	}
	if err := VerifyStructure(tx); err != nil {
		return nil, errors.Wrap(err, "issue proposal")
	}
	return tx, nil
}

// Issued returns the obligation created by an issue transition or nil if
// the transition is not an issue.
func Issued(tx *Transition) *Obligation {
	if tx == nil || tx.Action != ActionIssue || len(tx.Produced) != 1 {
		return nil
	}
	return tx.Produced[0]
}
