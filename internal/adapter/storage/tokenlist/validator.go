package tokenlist

import (
	"fmt"
	"net/url"
	"time"

	dto "tokenlist-indexer/internal/adapter/storage/tokenlist/dto"
	"tokenlist-indexer/internal/domain"
	"tokenlist-indexer/internal/pkg/ethaddr"
)

// Schema limits per the token list convention.
const (
	maxTokens    = 10000
	maxNameLen   = 60
	maxSymbolLen = 20
	maxDecimals  = 255
)

// Validate checks raw against the token list schema and returns every
// structural issue found. It is exhaustive and side-effect-free; an empty
// result means the document is valid.
func Validate(raw dto.TokenListRaw) []domain.Issue {
	var issues []domain.Issue
	add := func(path, reason string) {
		issues = append(issues, domain.Issue{Path: path, Reason: reason})
	}

	if raw.Name == "" {
		add("name", "required non-empty string")
	}
	if raw.Timestamp == "" {
		add("timestamp", "required ISO-8601 timestamp")
	} else if _, err := time.Parse(time.RFC3339, raw.Timestamp); err != nil {
		add("timestamp", "must be an ISO-8601 timestamp")
	}

	if raw.Version == nil {
		add("version", "required object with major, minor, patch")
	} else {
		if raw.Version.Major < 0 {
			add("version.major", "must be a non-negative integer")
		}
		if raw.Version.Minor < 0 {
			add("version.minor", "must be a non-negative integer")
		}
		if raw.Version.Patch < 0 {
			add("version.patch", "must be a non-negative integer")
		}
	}

	switch {
	case len(raw.Tokens) == 0:
		add("tokens", "must contain at least 1 entry")
	case len(raw.Tokens) > maxTokens:
		add("tokens", fmt.Sprintf("must contain at most %d entries", maxTokens))
	}

	for i, token := range raw.Tokens {
		validateToken(token, fmt.Sprintf("tokens[%d]", i), add)
	}

	return issues
}

func validateToken(token dto.TokenRaw, path string, add func(path, reason string)) {
	if token.ChainID <= 0 {
		add(path+".chainId", "must be a positive integer")
	}
	if !ethaddr.IsAddress(token.Address) {
		add(path+".address", "must be a valid EVM address")
	}
	if token.Name == "" || len(token.Name) > maxNameLen {
		add(path+".name", fmt.Sprintf("must be a string of 1..%d characters", maxNameLen))
	}
	if token.Symbol == "" || len(token.Symbol) > maxSymbolLen {
		add(path+".symbol", fmt.Sprintf("must be a string of 1..%d characters", maxSymbolLen))
	}
	switch {
	case token.Decimals == nil:
		add(path+".decimals", "required integer")
	case *token.Decimals < 0 || *token.Decimals > maxDecimals:
		add(path+".decimals", fmt.Sprintf("must be an integer in [0,%d]", maxDecimals))
	}

	if token.LogoURI != "" {
		if u, err := url.Parse(token.LogoURI); err != nil || u.Scheme == "" {
			add(path+".logoURI", "must be a well-formed URL")
		}
	}

	if token.Extensions == nil {
		return
	}
	for chainID, target := range token.Extensions.BridgeInfo {
		bridgePath := path + ".extensions.bridgeInfo[" + chainID + "]"
		if !isDecimalChainID(chainID) {
			add(bridgePath, "key must be a base-10 chain ID string")
		}
		if !ethaddr.IsAddress(target.TokenAddress) {
			add(bridgePath+".tokenAddress", "must be a valid EVM address")
		}
	}
}

// isDecimalChainID reports whether s consists only of ASCII digits.
// Leading '+', whitespace and empty strings all fail.
func isDecimalChainID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
