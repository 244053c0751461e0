/*
Package iou defines the primitives shared by every package of the bilateral
IOU ledger: conditions and addresses used to identify signers, and helpers to
carry a logger through a context.Context.

An IOU (an obligation) is issued by a lender to a borrower. Both parties must
co-sign the issuing transition before it is handed to a finality service,
which commits it exactly once. The packages are organised the following way:

  x/obligation  the obligation record, the transition validator and the
                proposal builder
  x/sigs        signing and verification of transitions
  x/identity    party identities, local keyring and the network map
  x/session     message passing sessions between two parties
  x/notary      the finality service
  x/vault       per party storage of finalized records
  x/flow        the signing protocol, proposer and counterparty roles
*/
package iou
