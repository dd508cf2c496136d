package tokenlist

import (
	"strconv"

	"go.uber.org/zap"

	dto "tokenlist-indexer/internal/adapter/storage/tokenlist/dto"
	"tokenlist-indexer/internal/domain/entity"
)

// toDomainTokenList converts a validated raw document to domain entities.
// It assumes Validate reported no issues; entries that still fail to convert
// (which validation should have ruled out) are skipped with a warning.
func toDomainTokenList(raw dto.TokenListRaw, logger *zap.Logger) entity.TokenList {
	list := entity.TokenList{
		Name:      raw.Name,
		Timestamp: raw.Timestamp,
		Tokens:    make([]entity.Token, 0, len(raw.Tokens)),
	}
	if raw.Version != nil {
		list.Version = entity.Version{
			Major: raw.Version.Major,
			Minor: raw.Version.Minor,
			Patch: raw.Version.Patch,
		}
	}

	for _, rawToken := range raw.Tokens {
		token := entity.Token{
			ChainID: uint64(rawToken.ChainID),
			Address: rawToken.Address,
			Name:    rawToken.Name,
			Symbol:  rawToken.Symbol,
			LogoURI: rawToken.LogoURI,
		}
		if rawToken.Decimals != nil {
			token.Decimals = uint8(*rawToken.Decimals)
		}

		if rawToken.Extensions != nil && len(rawToken.Extensions.BridgeInfo) > 0 {
			token.BridgeInfo = make(map[uint64]entity.BridgeTarget, len(rawToken.Extensions.BridgeInfo))
			for chainIDStr, target := range rawToken.Extensions.BridgeInfo {
				chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
				if err != nil {
					if logger != nil {
						logger.Warn("Skipping bridge target with unparsable chain ID",
							zap.String("chainId", chainIDStr),
							zap.String("address", rawToken.Address),
							zap.Error(err))
					}
					continue
				}
				token.BridgeInfo[chainID] = entity.BridgeTarget{TokenAddress: target.TokenAddress}
			}
		}

		list.Tokens = append(list.Tokens, token)
	}

	return list
}
