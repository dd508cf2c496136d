package port

import (
	"context"

	"tokenlist-indexer/internal/domain/entity"
)

// TokenService defines the interface for the token metadata index.
// This is the primary interface used by delivery layers (e.g., HTTP handlers)
// and by the composition root.
type TokenService interface {
	// AddTokenLogoImageSources looks up or creates the metadata entry for the
	// chain address and appends any sources not already present, preserving
	// insertion order. It returns the (possibly shared) metadata object and
	// is idempotent. Fails only on a syntactically invalid address.
	AddTokenLogoImageSources(addr entity.ChainAddress, sources ...entity.ImageSource) (*entity.TokenMetadata, error)

	// GetTokenFromAddress looks up the metadata entry for the chain address.
	// It never creates state; found reports whether an entry exists.
	GetTokenFromAddress(addr entity.ChainAddress) (meta *entity.TokenMetadata, found bool, err error)

	// FetchTokensFromList retrieves, validates and merges the token list at
	// href into the index, then records the list's metadata under href.
	// Already-merged tokens are not rolled back when the operation fails
	// part-way.
	FetchTokensFromList(ctx context.Context, href string) error

	// TokenLists returns the metadata of every successfully ingested list.
	TokenLists() []entity.TokenListMetadata

	// GetTokenListMetadata looks up the metadata recorded for href.
	GetTokenListMetadata(href string) (entity.TokenListMetadata, bool)
}
