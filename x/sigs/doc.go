/*
Package sigs binds signatures to transitions.

Signatures cover the canonical serialization of a transition prefixed with
the chain ID, so a signature created for one network is useless on another.
Signatures are kept next to the transition in a SignedTransition and the only
change allowed on a transition while it is being signed is appending a
signature.
*/
package sigs
