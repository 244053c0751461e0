package flow

import "fmt"

// State is a step of a flow. A proposer moves through Built, SelfSigned,
// AwaitingCounterparty, Collected, Submitted and ends in Finalized. A
// responder moves through Received and Countersigned and ends in Finalized.
// Both may end in Aborted at any step before Finalized.
type State int

const (
	StateBuilt State = iota + 1
	StateSelfSigned
	StateAwaitingCounterparty
	StateCollected
	StateSubmitted
	StateFinalized
	StateAborted

	StateReceived
	StateCountersigned
)

var stateNames = map[State]string{
	StateBuilt:                "built",
	StateSelfSigned:           "self signed",
	StateAwaitingCounterparty: "awaiting counterparty",
	StateCollected:            "collected",
	StateSubmitted:            "submitted",
	StateFinalized:            "finalized",
	StateAborted:              "aborted",
	StateReceived:             "received",
	StateCountersigned:        "countersigned",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal returns true if no further state can follow.
func (s State) Terminal() bool {
	return s == StateFinalized || s == StateAborted
}

// Progress is notified about every state a flow enters.
type Progress func(State)
