package entity

// ImageSource locates one logo image for a token.
type ImageSource struct {
	Src string `json:"src"`
}

// TokenMetadata is the mutable display metadata indexed for a token.
// A single TokenMetadata object may be shared by several chain-address keys
// when bridging links a canonical token to its counterparts on other chains;
// mutation through one key is then visible through every aliased key.
type TokenMetadata struct {
	LogoImages []ImageSource `json:"logoImages"`
}

// AddSources appends every source whose Src is not already present,
// deduplicating by exact (case-sensitive) string match and preserving
// insertion order. Applying the same sources twice is a no-op.
func (m *TokenMetadata) AddSources(sources ...ImageSource) {
	for _, source := range sources {
		if !m.hasSource(source.Src) {
			m.LogoImages = append(m.LogoImages, source)
		}
	}
}

func (m *TokenMetadata) hasSource(src string) bool {
	for _, existing := range m.LogoImages {
		if existing.Src == src {
			return true
		}
	}
	return false
}

// Version of a token list document.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// TokenListMetadata records one successfully ingested token list document,
// keyed in the store by its href.
type TokenListMetadata struct {
	Name      string  `json:"name"`
	Timestamp string  `json:"timestamp"`
	Version   Version `json:"version"`
	Href      string  `json:"href"`
}

// TokenList is a token list document that passed schema validation.
type TokenList struct {
	Name      string
	Timestamp string
	Version   Version
	Tokens    []Token
}

// Token is one validated token entry of a token list.
type Token struct {
	ChainID  uint64
	Address  string
	Name     string
	Symbol   string
	Decimals uint8
	LogoURI  string

	// BridgeInfo maps a destination chain ID to the token's bridged
	// counterpart on that chain.
	BridgeInfo map[uint64]BridgeTarget
}

// BridgeTarget is the bridged counterpart of a token on another chain.
type BridgeTarget struct {
	TokenAddress string
}
