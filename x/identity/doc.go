/*
Package identity provides the identity and key service of a party together
with a read only network map.

A Keyring holds the private key of the local party and is the only component
that can produce signatures on its behalf. A Directory resolves names and
public keys of all known parties.
*/
package identity
