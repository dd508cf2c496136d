package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tokenlist-indexer/internal/domain"
	"tokenlist-indexer/internal/domain/entity"
	"tokenlist-indexer/internal/pkg/apperrors"
	"tokenlist-indexer/internal/pkg/ethaddr"
)

const (
	daiMainnet = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	daiBase    = "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb"
)

// fakeListRepo serves canned token lists keyed by href.
type fakeListRepo struct {
	lists map[string]entity.TokenList
	errs  map[string]error
}

func (f *fakeListRepo) GetTokenList(_ context.Context, href string) (entity.TokenList, error) {
	if err, ok := f.errs[href]; ok {
		return entity.TokenList{}, err
	}
	list, ok := f.lists[href]
	if !ok {
		return entity.TokenList{}, fmt.Errorf("%w: no canned list for %s", apperrors.ErrNotFound, href)
	}
	return list, nil
}

func newStore(repo *fakeListRepo) *TokenStore {
	if repo == nil {
		repo = &fakeListRepo{}
	}
	return NewTokenStore(repo, zap.NewNop()).(*TokenStore)
}

func daiList() entity.TokenList {
	return entity.TokenList{
		Name:      "Test List",
		Timestamp: "2024-06-01T00:00:00Z",
		Version:   entity.Version{Major: 1},
		Tokens: []entity.Token{
			{
				ChainID:  1,
				Address:  daiMainnet,
				Name:     "Dai Stablecoin",
				Symbol:   "DAI",
				Decimals: 18,
				LogoURI:  "https://example.org/dai.png",
				BridgeInfo: map[uint64]entity.BridgeTarget{
					8453: {TokenAddress: daiBase},
				},
			},
		},
	}
}

func TestAddTokenLogoImageSourcesIdempotent(t *testing.T) {
	store := newStore(nil)
	addr := entity.ChainAddress{ChainID: 1, Address: daiMainnet}
	src := entity.ImageSource{Src: "https://example.org/dai.png"}

	first, err := store.AddTokenLogoImageSources(addr, src)
	require.NoError(t, err)
	second, err := store.AddTokenLogoImageSources(addr, src)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []entity.ImageSource{src}, second.LogoImages)
}

func TestAddTokenLogoImageSourcesPreservesOrder(t *testing.T) {
	store := newStore(nil)
	addr := entity.ChainAddress{ChainID: 1, Address: daiMainnet}

	a := entity.ImageSource{Src: "https://example.org/a.png"}
	b := entity.ImageSource{Src: "https://example.org/b.png"}
	c := entity.ImageSource{Src: "https://example.org/c.png"}

	_, err := store.AddTokenLogoImageSources(addr, a, b)
	require.NoError(t, err)
	meta, err := store.AddTokenLogoImageSources(addr, b, c, a)
	require.NoError(t, err)

	assert.Equal(t, []entity.ImageSource{a, b, c}, meta.LogoImages)
}

func TestAddTokenLogoImageSourcesCaseInsensitiveAddress(t *testing.T) {
	store := newStore(nil)
	src := entity.ImageSource{Src: "https://example.org/dai.png"}

	_, err := store.AddTokenLogoImageSources(entity.ChainAddress{ChainID: 1, Address: daiMainnet}, src)
	require.NoError(t, err)

	lower := entity.ChainAddress{ChainID: 1, Address: "0x6b175474e89094c44da98b954eedeac495271d0f"}
	meta, err := store.AddTokenLogoImageSources(lower, src)
	require.NoError(t, err)

	assert.Len(t, meta.LogoImages, 1)
}

func TestAddTokenLogoImageSourcesInvalidAddress(t *testing.T) {
	store := newStore(nil)

	_, err := store.AddTokenLogoImageSources(entity.ChainAddress{ChainID: 1, Address: "0xnothex"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ethaddr.ErrInvalidAddress))
}

func TestGetTokenFromAddressAbsent(t *testing.T) {
	store := newStore(nil)

	meta, found, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 1, Address: daiMainnet})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, meta)
}

func TestFetchTokensFromListBridgesToFreshKey(t *testing.T) {
	const href = "https://lists.example.org/dai.json"
	repo := &fakeListRepo{lists: map[string]entity.TokenList{href: daiList()}}
	store := newStore(repo)

	require.NoError(t, store.FetchTokensFromList(context.Background(), href))

	canonical, found, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 1, Address: daiMainnet})
	require.NoError(t, err)
	require.True(t, found)

	bridged, found, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 8453, Address: daiBase})
	require.NoError(t, err)
	require.True(t, found)

	// Fresh bridged key is aliased to the canonical object.
	assert.Same(t, canonical, bridged)
	assert.Equal(t, []entity.ImageSource{{Src: "https://example.org/dai.png"}}, bridged.LogoImages)

	lists := store.TokenLists()
	require.Len(t, lists, 1)
	assert.Equal(t, "Test List", lists[0].Name)
	assert.Equal(t, entity.Version{Major: 1}, lists[0].Version)
	assert.Equal(t, href, lists[0].Href)

	meta, found := store.GetTokenListMetadata(href)
	require.True(t, found)
	assert.Equal(t, lists[0], meta)
}

func TestFetchTokensFromListBridgeToPopulatedKeyKeepsDistinctObject(t *testing.T) {
	const href = "https://lists.example.org/dai.json"
	repo := &fakeListRepo{lists: map[string]entity.TokenList{href: daiList()}}
	store := newStore(repo)

	// The bridged chain address already has its own metadata object from an
	// earlier source.
	existing := entity.ImageSource{Src: "https://other.example.org/dai-base.png"}
	preexisting, err := store.AddTokenLogoImageSources(entity.ChainAddress{ChainID: 8453, Address: daiBase}, existing)
	require.NoError(t, err)

	require.NoError(t, store.FetchTokensFromList(context.Background(), href))

	canonical, _, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 1, Address: daiMainnet})
	require.NoError(t, err)
	bridged, _, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 8453, Address: daiBase})
	require.NoError(t, err)

	// Aliasing only happens on first sight: the bridged key keeps its own
	// object, but the logo source is still merged into it.
	assert.Same(t, preexisting, bridged)
	assert.NotSame(t, canonical, bridged)
	assert.Equal(t, []entity.ImageSource{existing, {Src: "https://example.org/dai.png"}}, bridged.LogoImages)
}

func TestFetchTokensFromListSkipsNonHTTPSLogos(t *testing.T) {
	const href = "https://lists.example.org/ipfs-logos.json"
	list := daiList()
	list.Tokens[0].LogoURI = "ipfs://bafybeigdyrzt/dai.png"
	repo := &fakeListRepo{lists: map[string]entity.TokenList{href: list}}
	store := newStore(repo)

	require.NoError(t, store.FetchTokensFromList(context.Background(), href))

	_, found, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 1, Address: daiMainnet})
	require.NoError(t, err)
	assert.False(t, found)

	// The list itself still counts as ingested.
	_, found = store.GetTokenListMetadata(href)
	assert.True(t, found)
}

func TestFetchTokensFromListRetrievalFailure(t *testing.T) {
	const href = "https://lists.example.org/missing.json"
	repo := &fakeListRepo{errs: map[string]error{
		href: fmt.Errorf("%w: token list source returned status 503 (Service Unavailable)", apperrors.ErrExternalServiceFailure),
	}}
	store := newStore(repo)

	err := store.FetchTokensFromList(context.Background(), href)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure))

	_, found := store.GetTokenListMetadata(href)
	assert.False(t, found)
}

func TestFetchTokensFromListValidationFailure(t *testing.T) {
	const href = "https://lists.example.org/broken.json"
	repo := &fakeListRepo{errs: map[string]error{
		href: &domain.ValidationError{Issues: []domain.Issue{
			{Path: "tokens", Reason: "must contain at least 1 entry"},
		}},
	}}
	store := newStore(repo)

	err := store.FetchTokensFromList(context.Background(), href)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenListInvalid))

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Issues, 1)

	_, found := store.GetTokenListMetadata(href)
	assert.False(t, found)
}

func TestFetchTokensFromListReingestOverwritesMetadata(t *testing.T) {
	const href = "https://lists.example.org/dai.json"
	list := daiList()
	repo := &fakeListRepo{lists: map[string]entity.TokenList{href: list}}
	store := newStore(repo)

	require.NoError(t, store.FetchTokensFromList(context.Background(), href))

	list.Version = entity.Version{Major: 2}
	repo.lists[href] = list
	require.NoError(t, store.FetchTokensFromList(context.Background(), href))

	lists := store.TokenLists()
	require.Len(t, lists, 1)
	assert.Equal(t, entity.Version{Major: 2}, lists[0].Version)

	// The merge itself stays idempotent.
	meta, _, err := store.GetTokenFromAddress(entity.ChainAddress{ChainID: 1, Address: daiMainnet})
	require.NoError(t, err)
	assert.Len(t, meta.LogoImages, 1)
}
