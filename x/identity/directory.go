package identity

import (
	"sort"

	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
)

// Directory is a read only network map. It resolves party names and keys to
// party identities.
type Directory interface {
	Lookup(name string) (*Party, error)
	ByKey(pub *crypto.PublicKey) (*Party, error)
}

// StaticDirectory is a Directory created once from a known list of parties.
type StaticDirectory struct {
	byName map[string]*Party
	byKey  map[string]*Party
}

var _ Directory = (*StaticDirectory)(nil)

// NewDirectory returns a directory of given parties. Each party must be
// valid and no two parties can share a name or a key.
func NewDirectory(parties ...*Party) (*StaticDirectory, error) {
	d := &StaticDirectory{
		byName: make(map[string]*Party, len(parties)),
		byKey:  make(map[string]*Party, len(parties)),
	}
	for _, p := range parties {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "party %q", p.GetName())
		}
		key := string(p.PubKey.Ed25519)
		if _, ok := d.byName[p.Name]; ok {
			return nil, errors.Wrapf(errors.ErrDuplicate, "party name %q", p.Name)
		}
		if _, ok := d.byKey[key]; ok {
			return nil, errors.Wrapf(errors.ErrDuplicate, "party key of %q", p.Name)
		}
		cpy := p.Clone()
		d.byName[p.Name] = cpy
		d.byKey[key] = cpy
	}
	return d, nil
}

// Lookup returns the party registered under given name.
func (d *StaticDirectory) Lookup(name string) (*Party, error) {
	p, ok := d.byName[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "party %q", name)
	}
	return p.Clone(), nil
}

// ByKey returns the party that owns given key.
func (d *StaticDirectory) ByKey(pub *crypto.PublicKey) (*Party, error) {
	p, ok := d.byKey[string(pub.GetEd25519())]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "party with key %X", pub.GetEd25519())
	}
	return p.Clone(), nil
}

// Parties returns all registered parties ordered by name.
func (d *StaticDirectory) Parties() []*Party {
	res := make([]*Party, 0, len(d.byName))
	for _, p := range d.byName {
		res = append(res, p.Clone())
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}
