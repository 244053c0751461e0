package identity_test

import (
	"testing"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/ioutest"
	"github.com/iov-one/iou/ioutest/assert"
	"github.com/iov-one/iou/x/identity"
)

func TestAddressBech32(t *testing.T) {
	addr := ioutest.SeedKey("alice").PublicKey().Address()

	s, err := identity.EncodeAddress(addr)
	assert.Nil(t, err)
	got, err := identity.DecodeAddress(s)
	assert.Nil(t, err)
	assert.Equal(t, addr, got)

	_, err = identity.EncodeAddress(nil)
	assert.IsErr(t, errors.ErrEmpty, err)
	_, err = identity.EncodeAddress(iou.Address{1, 2, 3})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDecodeAddressErrors(t *testing.T) {
	cases := map[string]string{
		"not bech32":     "alice",
		"bad checksum":   "iou1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq",
		"foreign prefix": "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		"empty":          "",
	}
	for testName, s := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := identity.DecodeAddress(s)
			assert.IsErr(t, errors.ErrInput, err)
		})
	}
}
