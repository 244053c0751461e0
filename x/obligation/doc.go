/*
Package obligation defines the IOU record and the rules of transitions that
create it.

An Obligation can only be created through NewObligation, which refuses a non
positive amount and a borrower equal to the lender. A Transition consumes
prior records and produces new ones. Whether a transition is legal is decided
by VerifyStructure, which every party runs on its own, and by VerifyComplete
once all signatures are collected. Both use the same rule dispatch keyed by
the transition Action.
*/
package obligation
