package tokenlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	dto "tokenlist-indexer/internal/adapter/storage/tokenlist/dto"
	"tokenlist-indexer/internal/config"
	"tokenlist-indexer/internal/domain"
	"tokenlist-indexer/internal/domain/entity"
	domainRepo "tokenlist-indexer/internal/domain/repository"
	"tokenlist-indexer/internal/pkg/apperrors"
	"tokenlist-indexer/internal/pkg/web3url"
)

// Compile-time check
var _ domainRepo.TokenListRepository = (*Repository)(nil)

// Repository implements TokenListRepository over HTTP(S), resolving ipfs://
// and ipns:// hrefs through the configured gateway. Fetched document bodies
// are cached in memory for the configured TTL, keyed by the resolved URL.
type Repository struct {
	client   *fasthttp.Client
	gateway  string
	timeout  time.Duration
	docCache *cache.Cache
	docTTL   time.Duration
	logger   *zap.Logger
}

// NewRepository creates a new token list repository instance.
func NewRepository(cfg config.FetcherConfig, cacheCfg config.CacheConfig, logger *zap.Logger) domainRepo.TokenListRepository {
	return &Repository{
		client:   &fasthttp.Client{},
		gateway:  cfg.Gateway,
		timeout:  cfg.Timeout,
		docCache: cache.New(cacheCfg.GetDefaultExpiration(), cacheCfg.GetCleanupInterval()),
		docTTL:   cfg.DocumentTTL,
		logger:   logger.Named("TokenListStorage"),
	}
}

// GetTokenList retrieves, parses and validates the token list at href.
func (r *Repository) GetTokenList(ctx context.Context, href string) (entity.TokenList, error) {
	fetchURL, err := web3url.ToHTTPSURL(href, r.gateway)
	if err != nil {
		return entity.TokenList{}, fmt.Errorf("resolve token list URL: %w", err)
	}

	body, err := r.fetchDocument(ctx, fetchURL.String())
	if err != nil {
		return entity.TokenList{}, err
	}

	var raw dto.TokenListRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		r.logger.Error("Failed to unmarshal token list body",
			zap.String("url", fetchURL.String()),
			zap.Error(err),
			zap.ByteString("bodySample", body[:min(1024, len(body))]),
		)
		return entity.TokenList{}, &domain.ValidationError{Issues: []domain.Issue{
			{Path: "(document)", Reason: "body is not valid JSON: " + err.Error()},
		}}
	}

	if issues := Validate(raw); len(issues) > 0 {
		for _, issue := range issues {
			r.logger.Warn("Token list schema issue",
				zap.String("url", fetchURL.String()),
				zap.String("path", issue.Path),
				zap.String("reason", issue.Reason),
			)
		}
		return entity.TokenList{}, &domain.ValidationError{Issues: issues}
	}

	list := toDomainTokenList(raw, r.logger)
	r.logger.Info("Successfully fetched and validated token list",
		zap.String("url", fetchURL.String()),
		zap.Int("tokenCount", len(list.Tokens)),
	)
	return list, nil
}

// fetchDocument returns the raw document body, serving repeat requests for
// the same resolved URL from the in-process cache within the TTL.
func (r *Repository) fetchDocument(ctx context.Context, url string) ([]byte, error) {
	if x, found := r.docCache.Get(url); found {
		if body, ok := x.([]byte); ok {
			r.logger.Debug("Document cache hit", zap.String("url", url))
			return body, nil
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")

	timeout := r.timeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout > 0 && requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	r.logger.Debug("Fetching token list document",
		zap.String("url", url),
		zap.Duration("timeout", timeout),
	)

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		r.logger.Error("Failed to execute token list request", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to execute request to %s: %v",
			apperrors.ErrExternalServiceFailure, url, err,
		)
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		r.logger.Warn("Token list source reported not found",
			zap.String("url", url),
			zap.Int("statusCode", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: token list source reported not found (%s)", apperrors.ErrNotFound, url)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Error("Token list source returned non-OK status",
			zap.String("url", url),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return nil, fmt.Errorf("%w: token list source returned status %d (%s)",
			apperrors.ErrExternalServiceFailure, resp.StatusCode(),
			fasthttp.StatusMessage(resp.StatusCode()),
		)
	}

	var body []byte
	var err error
	contentEncoding := resp.Header.Peek(fasthttp.HeaderContentEncoding)
	if bytes.EqualFold(contentEncoding, []byte("gzip")) {
		r.logger.Debug("Received gzipped token list response", zap.String("url", url))
		body, err = resp.BodyGunzip()
		if err != nil {
			r.logger.Error("Failed to gunzip token list response body", zap.Error(err))
			return nil, fmt.Errorf("%w: failed to decompress token list response: %v",
				apperrors.ErrExternalServiceFailure, err,
			)
		}
	} else {
		// The response buffer is released with resp; keep our own copy.
		body = append([]byte(nil), resp.Body()...)
	}

	if r.docTTL > 0 {
		r.docCache.Set(url, body, r.docTTL)
	}
	return body, nil
}

// min returns the smaller of two integers.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
