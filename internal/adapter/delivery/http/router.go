package http

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	handler "tokenlist-indexer/internal/adapter/handler/http"
)

// RegisterRoutes sets up the routes for the token handler and common health checks.
func RegisterRoutes(r *router.Router, h *handler.TokenHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/tokens/{chainId:[0-9]+}/{address}", h.GetToken)
	r.GET("/lists", h.GetTokenLists)
	r.POST("/lists", h.IngestList)

	logger.Info("Setting up health check route...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}
