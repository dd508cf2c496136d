package main

import (
	"context"
	"log"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	delivery "tokenlist-indexer/internal/adapter/delivery/http"
	handler "tokenlist-indexer/internal/adapter/handler/http"
	"tokenlist-indexer/internal/adapter/storage/tokenlist"
	"tokenlist-indexer/internal/application"
	"tokenlist-indexer/internal/config"
	"tokenlist-indexer/internal/domain/entity"
	"tokenlist-indexer/internal/logger"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	zapLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer zapLogger.Sync() // Ensure logs are flushed before exiting
	zapLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	// --- Dependency Injection (Manual) ---
	zapLogger.Info("Initializing dependencies...")

	listRepo := tokenlist.NewRepository(cfg.Fetcher, cfg.Cache, zapLogger)
	store := application.NewTokenStore(listRepo, zapLogger)
	tokenHandler := handler.NewTokenHandler(store, zapLogger)

	// --- Startup ingestion ---
	sources, err := config.LoadSources(cfg.Lists.SourcesFile)
	if err != nil {
		zapLogger.Fatal("Failed to load token list sources", zap.Error(err))
	}

	ctx := context.Background()
	for _, source := range sources {
		zapLogger.Info("Ingesting token list", zap.String("name", source.Name), zap.String("url", source.URL))
		if err := store.FetchTokensFromList(ctx, source.URL); err != nil {
			zapLogger.Fatal("Failed to ingest token list",
				zap.String("name", source.Name),
				zap.String("url", source.URL),
				zap.Error(err),
			)
		}
	}

	// Attach one extra hand-curated logo source and show what the index
	// now knows about DAI on mainnet.
	dai := entity.ChainAddress{ChainID: 1, Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F"}
	if _, err := store.AddTokenLogoImageSources(dai, entity.ImageSource{Src: "https://assets.example.org/dai.svg"}); err != nil {
		zapLogger.Fatal("Failed to attach logo source", zap.Error(err))
	}
	if meta, found, err := store.GetTokenFromAddress(dai); err == nil && found {
		zapLogger.Info("Example token metadata",
			zap.Uint64("chainId", dai.ChainID),
			zap.String("address", dai.Address),
			zap.Any("logoImages", meta.LogoImages),
		)
	}
	zapLogger.Info("Startup ingestion complete", zap.Int("listCount", len(store.TokenLists())))

	// --- HTTP Router & Server ---
	zapLogger.Info("Setting up HTTP router...")
	r := router.New()
	delivery.RegisterRoutes(r, tokenHandler, zapLogger)

	loggingMiddleware := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			zapLogger.Info("Request received",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("uri", ctx.RequestURI()))
			next(ctx)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr))

	if err := fasthttp.ListenAndServe(serverAddr, loggingMiddleware(r.Handler)); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
