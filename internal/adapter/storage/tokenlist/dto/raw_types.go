package tokenlist_dto

// TokenListRaw represents a token list document as received from its source,
// before schema validation. Pointer fields distinguish absent objects from
// zero values where validation needs to tell them apart.
type TokenListRaw struct {
	Name      string      `json:"name"`
	Timestamp string      `json:"timestamp"`
	Version   *VersionRaw `json:"version"`
	Tokens    []TokenRaw  `json:"tokens"`
}

// VersionRaw defines the document version from raw data.
type VersionRaw struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// TokenRaw represents one token entry from raw data.
type TokenRaw struct {
	ChainID    int64          `json:"chainId"`
	Address    string         `json:"address"`
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	Decimals   *int           `json:"decimals"`
	LogoURI    string         `json:"logoURI,omitempty"`
	Extensions *ExtensionsRaw `json:"extensions,omitempty"`
}

// ExtensionsRaw holds the optional token extensions from raw data.
type ExtensionsRaw struct {
	// BridgeInfo maps a decimal chain-ID string to the bridged counterpart.
	BridgeInfo map[string]BridgeTargetRaw `json:"bridgeInfo,omitempty"`
}

// BridgeTargetRaw defines a bridged counterpart address from raw data.
type BridgeTargetRaw struct {
	TokenAddress string `json:"tokenAddress"`
}
