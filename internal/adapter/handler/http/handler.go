package http

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"tokenlist-indexer/internal/application/port"
	"tokenlist-indexer/internal/domain"
	"tokenlist-indexer/internal/domain/entity"
	"tokenlist-indexer/internal/pkg/apperrors"
	"tokenlist-indexer/internal/pkg/ethaddr"
	"tokenlist-indexer/internal/pkg/web3url"
)

// TokenHandler exposes the token metadata index over HTTP.
type TokenHandler struct {
	service port.TokenService
	logger  *zap.Logger
}

func NewTokenHandler(service port.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		logger:  logger.Named("TokenHandler"),
	}
}

// GetToken handles requests for the metadata of one chain-address pair.
func (h *TokenHandler) GetToken(ctx *fasthttp.RequestCtx) {
	chainIDStr, ok := ctx.UserValue("chainId").(string)
	if !ok {
		ctx.Error("Bad Request: Invalid chainId format", fasthttp.StatusBadRequest)
		return
	}
	chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
	if err != nil || chainID == 0 {
		ctx.Error("Bad Request: Invalid chainId", fasthttp.StatusBadRequest)
		return
	}
	address, ok := ctx.UserValue("address").(string)
	if !ok {
		ctx.Error("Bad Request: Invalid address", fasthttp.StatusBadRequest)
		return
	}

	meta, found, err := h.service.GetTokenFromAddress(entity.ChainAddress{ChainID: chainID, Address: address})
	if err != nil {
		if errors.Is(err, ethaddr.ErrInvalidAddress) {
			ctx.Error("Bad Request: Invalid address", fasthttp.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to look up token", zap.Uint64("chainId", chainID), zap.String("address", address), zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	if !found {
		ctx.Error("Not Found", fasthttp.StatusNotFound)
		return
	}

	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(meta); err != nil {
		h.logger.Error("Failed to encode token response", zap.Error(err))
	}
}

// GetTokenLists handles requests for the metadata of all ingested lists.
func (h *TokenHandler) GetTokenLists(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(h.service.TokenLists()); err != nil {
		h.logger.Error("Failed to encode token lists response", zap.Error(err))
	}
}

type ingestRequest struct {
	URL string `json:"url"`
}

// IngestList handles requests to ingest a token list on demand.
func (h *TokenHandler) IngestList(ctx *fasthttp.RequestCtx) {
	var req ingestRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.URL == "" {
		ctx.Error("Bad Request: body must be a JSON object with a url field", fasthttp.StatusBadRequest)
		return
	}

	if err := h.service.FetchTokensFromList(ctx, req.URL); err != nil {
		h.logger.Warn("Failed to ingest token list", zap.String("url", req.URL), zap.Error(err))
		switch {
		case errors.Is(err, web3url.ErrUnsupportedProtocol), errors.Is(err, apperrors.ErrInvalidInput):
			ctx.Error("Bad Request: "+err.Error(), fasthttp.StatusBadRequest)
		case errors.Is(err, apperrors.ErrNotFound):
			ctx.Error("Not Found: "+err.Error(), fasthttp.StatusNotFound)
		case errors.Is(err, domain.ErrTokenListInvalid):
			ctx.Error("Unprocessable Entity: "+err.Error(), fasthttp.StatusUnprocessableEntity)
		default:
			ctx.Error("Bad Gateway: "+err.Error(), fasthttp.StatusBadGateway)
		}
		return
	}

	meta, _ := h.service.GetTokenListMetadata(req.URL)
	ctx.SetStatusCode(fasthttp.StatusCreated)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(meta); err != nil {
		h.logger.Error("Failed to encode ingest response", zap.Error(err))
	}
}
