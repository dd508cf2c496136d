package repository

import (
	"context"

	"tokenlist-indexer/internal/domain/entity"
)

// TokenListRepository defines the interface for retrieving token list
// documents. Implementations resolve the href (https, ipfs or ipns), fetch
// the document, and return it fully validated; a document that fails schema
// validation is reported as *domain.ValidationError.
type TokenListRepository interface {
	// GetTokenList retrieves and validates the token list at href.
	GetTokenList(ctx context.Context, href string) (entity.TokenList, error)
}
