/*
Package flow implements the signing protocol of two parties.

A Proposer builds a transition, signs it and sends it to the counterparty.
The Responder on the other side runs its domain check and the transition
rules on its own, signs and returns the transition. The proposer submits the
fully signed transition to the notary and sends the finalized record back, so
that both parties end with the same record.

Any rejection or session failure aborts the flow on both sides. A rejected
proposal is never retried.
*/
package flow
