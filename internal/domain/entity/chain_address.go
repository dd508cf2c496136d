package entity

import (
	"encoding/hex"
	"strconv"

	"tokenlist-indexer/internal/pkg/ethaddr"
)

// ChainAddressKey is the opaque identity key of a (chain ID, address) pair.
// Two ChainAddress values derive the same key iff their chain IDs match and
// their addresses are equal case-insensitively. The format is
// "<chainId>_<lowercase-hex-address-without-0x>"; chain IDs are decimal and
// addresses are fixed 40-hex-digit strings, so keys cannot collide across
// distinct pairs.
type ChainAddressKey string

// ChainAddress identifies a token contract on a specific chain. It is never
// used directly as a map key; lookups always go through Key().
type ChainAddress struct {
	ChainID uint64
	Address string
}

// Key derives the canonical lookup key for the chain address. It fails only
// when the address is not a syntactically valid EVM address.
func (a ChainAddress) Key() (ChainAddressKey, error) {
	canonical, err := ethaddr.Canonicalize(a.Address, a.ChainID)
	if err != nil {
		return "", err
	}
	key := strconv.FormatUint(a.ChainID, 10) + "_" + hex.EncodeToString(canonical.Bytes())
	return ChainAddressKey(key), nil
}
