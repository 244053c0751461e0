// Package vault stores the finalized transitions of a single party.
package vault
