package iou

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/iov-one/iou/errors"
)

// AddressLength is the length of every address.
const AddressLength = 20

// Condition describes who can authorize an action. It has the form
//
//   <extension>/<type>/<data>
//
// where data is binary, ie. sigs/ed25519/<public key>.
type Condition []byte

// NewCondition builds a condition out of its three sections.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse splits the condition into its sections.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	parts := bytes.SplitN(c, []byte("/"), 3)
	if len(parts) != 3 || !validSection(parts[0]) || !validSection(parts[1]) || len(parts[2]) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition %X", []byte(c))
	}
	return string(parts[0]), string(parts[1]), parts[2], nil
}

// validSection accepts 3 to 8 characters of [a-zA-Z0-9_-].
func validSection(s []byte) bool {
	if len(s) < 3 || len(s) > 8 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// Validate returns an error if the condition is malformed.
func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

// Address returns the address of this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Address is a one way digest of a condition.
type Address []byte

// NewAddress returns the address of given data.
func NewAddress(data []byte) Address {
	h := sha256.Sum256(data)
	return Address(h[:AddressLength])
}

// Equals returns true if both addresses hold the same bytes.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(fmt.Sprintf("%x", []byte(a)))
}

// Validate returns an error if the address is empty or of a wrong size.
func (a Address) Validate() error {
	switch len(a) {
	case 0:
		return errors.Wrap(errors.ErrEmpty, "address")
	case AddressLength:
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
}

// Clone returns a copy that does not share memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}
