package application

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"tokenlist-indexer/internal/application/port"
	"tokenlist-indexer/internal/domain/entity"
	domainRepo "tokenlist-indexer/internal/domain/repository"
	"tokenlist-indexer/internal/pkg/web3url"
)

// Compile-time check to ensure TokenStore implements TokenService
var _ port.TokenService = (*TokenStore)(nil)

// TokenStore owns the in-memory token metadata index. Chain-address keys map
// to shared *entity.TokenMetadata objects: when a token declares a bridged
// counterpart whose key has not been seen yet, the bridged key is aliased to
// the canonical token's object, so both keys observe the same metadata.
//
// The store is designed for sequential mutation by a single caller and does
// no internal locking. Reads are safe against each other but not against a
// concurrent FetchTokensFromList or AddTokenLogoImageSources.
type TokenStore struct {
	listRepo domainRepo.TokenListRepository
	logger   *zap.Logger

	tokens map[entity.ChainAddressKey]*entity.TokenMetadata
	lists  map[string]entity.TokenListMetadata
}

// NewTokenStore creates an empty token metadata store that retrieves token
// lists through listRepo.
func NewTokenStore(listRepo domainRepo.TokenListRepository, logger *zap.Logger) port.TokenService {
	return &TokenStore{
		listRepo: listRepo,
		logger:   logger.Named("TokenStore"),
		tokens:   make(map[entity.ChainAddressKey]*entity.TokenMetadata),
		lists:    make(map[string]entity.TokenListMetadata),
	}
}

// AddTokenLogoImageSources implements port.TokenService.
func (s *TokenStore) AddTokenLogoImageSources(addr entity.ChainAddress, sources ...entity.ImageSource) (*entity.TokenMetadata, error) {
	key, err := addr.Key()
	if err != nil {
		return nil, fmt.Errorf("derive chain-address key: %w", err)
	}

	meta, found := s.tokens[key]
	if !found {
		meta = &entity.TokenMetadata{}
		s.tokens[key] = meta
		s.logger.Debug("Created token metadata entry", zap.String("key", string(key)))
	}

	meta.AddSources(sources...)
	return meta, nil
}

// GetTokenFromAddress implements port.TokenService.
func (s *TokenStore) GetTokenFromAddress(addr entity.ChainAddress) (*entity.TokenMetadata, bool, error) {
	key, err := addr.Key()
	if err != nil {
		return nil, false, fmt.Errorf("derive chain-address key: %w", err)
	}
	meta, found := s.tokens[key]
	return meta, found, nil
}

// FetchTokensFromList implements port.TokenService.
//
// For every token whose logoURI is an https URL, the logo is added as a
// source for the token's own chain address, and each declared bridge target
// is linked: the bridged key is aliased to the canonical metadata object on
// first sight, and the logo source is added to whatever object the bridged
// key holds on every declaration. When the bridged key was already populated
// by an earlier list, that object is distinct from the canonical one; the
// logo is still merged into it. This asymmetry is intentional and relied
// upon by consumers.
func (s *TokenStore) FetchTokensFromList(ctx context.Context, href string) error {
	list, err := s.listRepo.GetTokenList(ctx, href)
	if err != nil {
		s.logger.Error("Failed to retrieve token list", zap.String("href", href), zap.Error(err))
		return fmt.Errorf("fetch token list %q: %w", href, err)
	}

	merged := 0
	skipped := 0
	for _, token := range list.Tokens {
		if !web3url.IsHTTPSURL(token.LogoURI) {
			// Non-https logo URIs (including unresolved ipfs://) are skipped,
			// not resolved; callers must pre-resolve them.
			skipped++
			s.logger.Debug("Skipping token without https logo URI",
				zap.Uint64("chainId", token.ChainID),
				zap.String("address", token.Address),
				zap.String("logoURI", token.LogoURI),
			)
			continue
		}

		source := entity.ImageSource{Src: token.LogoURI}
		tokenAddr := entity.ChainAddress{ChainID: token.ChainID, Address: token.Address}

		canonical, err := s.AddTokenLogoImageSources(tokenAddr, source)
		if err != nil {
			return fmt.Errorf("merge token %s on chain %d: %w", token.Address, token.ChainID, err)
		}

		for bridgedChainID, target := range token.BridgeInfo {
			bridged := entity.ChainAddress{ChainID: bridgedChainID, Address: target.TokenAddress}
			bridgedKey, err := bridged.Key()
			if err != nil {
				return fmt.Errorf("merge bridge target %s on chain %d: %w", target.TokenAddress, bridgedChainID, err)
			}

			if _, exists := s.tokens[bridgedKey]; !exists {
				s.tokens[bridgedKey] = canonical
				s.logger.Debug("Aliased bridged chain address to canonical metadata",
					zap.Uint64("chainId", token.ChainID),
					zap.String("address", token.Address),
					zap.String("bridgedKey", string(bridgedKey)),
				)
			}

			if _, err := s.AddTokenLogoImageSources(bridged, source); err != nil {
				return fmt.Errorf("merge bridge target %s on chain %d: %w", target.TokenAddress, bridgedChainID, err)
			}
		}

		merged++
	}

	// Only a fully processed document gets its metadata recorded; a re-ingest
	// of the same href overwrites the previous entry.
	s.lists[href] = entity.TokenListMetadata{
		Name:      list.Name,
		Timestamp: list.Timestamp,
		Version:   list.Version,
		Href:      href,
	}

	s.logger.Info("Ingested token list",
		zap.String("href", href),
		zap.String("name", list.Name),
		zap.Int("mergedTokens", merged),
		zap.Int("skippedTokens", skipped),
	)
	return nil
}

// TokenLists implements port.TokenService. The result is sorted by href for
// deterministic output.
func (s *TokenStore) TokenLists() []entity.TokenListMetadata {
	result := make([]entity.TokenListMetadata, 0, len(s.lists))
	for _, meta := range s.lists {
		result = append(result, meta)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Href < result[j].Href })
	return result
}

// GetTokenListMetadata implements port.TokenService.
func (s *TokenStore) GetTokenListMetadata(href string) (entity.TokenListMetadata, bool) {
	meta, found := s.lists[href]
	return meta, found
}
