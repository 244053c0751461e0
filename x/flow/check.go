package flow

import (
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/obligation"
)

// CheckFunc is the domain acceptance check a responder runs before signing a
// proposed transition. It must not modify the transition.
type CheckFunc func(me *identity.Party, tx *obligation.Transition) error

// IssueCheck accepts an issue transition only if the responding party is the
// borrower of the issued obligation.
func IssueCheck(me *identity.Party, tx *obligation.Transition) error {
	o := obligation.Issued(tx)
	if o == nil {
		return errors.Wrap(errors.ErrMsg, "issue transition expected")
	}
	if !o.Borrower.Equals(me) {
		return errors.Wrap(errors.ErrUnauthorized, "not the intended counterparty")
	}
	return nil
}
