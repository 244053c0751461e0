package identity

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
)

// AddressPrefix is the human readable part of bech32 encoded party addresses.
const AddressPrefix = "iou"

// EncodeAddress returns the bech32 form of given address.
func EncodeAddress(addr iou.Address) (string, error) {
	if err := addr.Validate(); err != nil {
		return "", err
	}
	data, err := bech32.ConvertBits(addr, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	s, err := bech32.Encode(AddressPrefix, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return s, nil
}

// DecodeAddress parses an address produced by EncodeAddress.
func DecodeAddress(s string) (iou.Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	if hrp != AddressPrefix {
		return nil, errors.Wrapf(errors.ErrInput, "unexpected prefix %q", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	addr := iou.Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
