package ethaddr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidAddress means the input is not a syntactically valid EVM address.
var ErrInvalidAddress = errors.New("invalid EVM address")

// memoCapacity bounds the IsAddress memo cache; the same address strings
// recur across the tokens of many lists.
const memoCapacity = 4096

var hexAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var memo *lru.Cache[string, bool]

func init() {
	memo, _ = lru.New[string, bool](memoCapacity)
}

// IsAddress reports whether s is a syntactically valid EVM address:
// a 0x prefix followed by exactly 40 hex digits, case-insensitive.
// Results are memoized under the lowercased input.
func IsAddress(s string) bool {
	key := strings.ToLower(s)
	if valid, found := memo.Get(key); found {
		return valid
	}
	valid := hexAddressRe.MatchString(key)
	memo.Add(key, valid)
	return valid
}

// Canonicalize parses s into its canonical address representation.
// The chain ID is part of the contract because some address standards vary
// checksum casing by chain (EIP-1191); equality and key derivation only ever
// use the lowercase hex digits, so it does not affect the result here.
func Canonicalize(s string, chainID uint64) (common.Address, error) {
	_ = chainID
	if !IsAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
