package obligation

import (
	"fmt"

	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
)

// Action identifies the kind of a transition. Each action has its own set of
// rules that a transition must follow.
type Action int32

const (
	ActionUnknown Action = 0
	// ActionIssue creates a new obligation out of nothing. Both parties
	// of the obligation must sign.
	ActionIssue Action = 1
)

func (a Action) String() string {
	switch a {
	case ActionUnknown:
		return "unknown"
	case ActionIssue:
		return "issue"
	default:
		return fmt.Sprintf("action(%d)", int32(a))
	}
}

// rules is the verification logic of a single action.
type rules struct {
	// structure checks the shape of a transition. It must not depend on
	// signatures.
	structure func(*Transition) error
	// signers returns the keys that must sign a structurally valid
	// transition.
	signers func(*Transition) []*crypto.PublicKey
}

// rulebook dispatches verification by action. Adding an action is adding an
// entry here.
var rulebook = map[Action]rules{
	ActionIssue: {
		structure: verifyIssue,
		signers:   producedParticipants,
	},
}

func verifyIssue(tx *Transition) error {
	if len(tx.Consumed) != 0 {
		return errors.Wrap(errors.ErrMsg, "no inputs allowed")
	}
	if len(tx.Produced) != 1 {
		return errors.Wrap(errors.ErrMsg, "exactly one output required")
	}
	if err := tx.Produced[0].Validate(); err != nil {
		return errors.Wrap(err, "output 0")
	}
	return nil
}

// producedParticipants returns the keys of all participants of all produced
// obligations, without duplicates.
func producedParticipants(tx *Transition) []*crypto.PublicKey {
	var keys []*crypto.PublicKey
	for _, o := range tx.Produced {
		for _, k := range o.participantKeys() {
			if !containsKey(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func containsKey(keys []*crypto.PublicKey, key *crypto.PublicKey) bool {
	for _, k := range keys {
		if k.Equals(key) {
			return true
		}
	}
	return false
}
