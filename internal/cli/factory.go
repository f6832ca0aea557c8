// Package cli holds the shared wiring and interactive loop behind the
// intake commands.
package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"

	backend "github.com/redis/go-redis/v9"

	"github.com/counciltech/intake"
	"github.com/counciltech/intake/internal/config"
	"github.com/counciltech/intake/pkg/adapters/file"
	"github.com/counciltech/intake/pkg/adapters/memory"
	redisAdapter "github.com/counciltech/intake/pkg/adapters/redis"
	"github.com/counciltech/intake/pkg/catalog"
	"github.com/counciltech/intake/pkg/persistence/middleware"
	"github.com/counciltech/intake/pkg/ports"
	"github.com/counciltech/intake/pkg/understanding"
)

// BuildEngine assembles an engine from configuration: catalog, store,
// understanding client and mode. The returned cleanup releases any backend
// connections and is safe to call once.
func BuildEngine(cfg config.Config, logger *slog.Logger) (*intake.Engine, func() error, error) {
	cleanup := func() error { return nil }

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}

	mode, err := intake.ParseMode(cfg.Mode)
	if err != nil {
		return nil, nil, err
	}

	llm := understanding.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey,
		understanding.WithModel(cfg.LLM.Model),
		understanding.WithTemperature(cfg.LLM.Temperature),
		understanding.WithStructuredAnalysis(),
		understanding.WithLogger(logger),
	)

	opts := []intake.Option{
		intake.WithCatalog(cat),
		intake.WithMode(mode),
		intake.WithLogger(logger),
	}

	var store ports.SessionStore
	var archive ports.ResultArchive

	switch {
	case cfg.Redis.Addr != "":
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisStore := redisAdapter.NewFromClient(client,
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
		store, archive = redisStore, redisStore
		opts = append(opts, intake.WithLocker(redisAdapter.NewLocker(client, "intake:")))
		cleanup = redisStore.Close
	case cfg.Storage.Dir != "":
		fileStore := file.NewStore(cfg.Storage.Dir)
		store, archive = fileStore, fileStore
	case cfg.Storage.EncryptionKey != "" || len(cfg.Storage.MaskPatterns) > 0:
		// At-rest wrapping on the default backend still needs an explicit
		// store so the engine sees the wrapped one.
		memStore := memory.NewStore()
		store, archive = memStore, memStore
	}

	if store != nil {
		wrapped, err := wrapStore(store, cfg.Storage)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, intake.WithStore(wrapped), intake.WithArchive(archive))
	}

	engine, err := intake.New(llm, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

// wrapStore applies the configured at-rest middlewares: masking first, so
// the ciphertext never contains unmasked values.
func wrapStore(store ports.SessionStore, cfg config.StorageConfig) (ports.SessionStore, error) {
	var mws []middleware.Middleware

	if len(cfg.MaskPatterns) > 0 {
		for _, p := range cfg.MaskPatterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewPIIMiddleware(cfg.MaskPatterns))
	}

	if cfg.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode encryption key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	return middleware.Chain(store, mws...), nil
}

// loadCatalog returns the built-in procurement catalog unless a file is
// configured.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Procurement(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}
