/*
Package notary implements the finality service.

The Ledger verifies that a transition is legal and carries all required
signatures, refuses any transition that was already committed or that
consumes an already consumed record, and commits accepted transitions to an
iavl tree. Only the proposer of a transition submits it.
*/
package notary
