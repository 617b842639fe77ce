package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/internal/pipeline"
	"github.com/verdant-labs/flora-cli/internal/store"
	anthropicpkg "github.com/verdant-labs/flora-cli/pkg/anthropic"
	"github.com/verdant-labs/flora-cli/pkg/deepl"
	"github.com/verdant-labs/flora-cli/pkg/mediastore"
	"github.com/verdant-labs/flora-cli/pkg/notify"
	"github.com/verdant-labs/flora-cli/pkg/unsplash"
	"github.com/verdant-labs/flora-cli/pkg/wikimedia"
)

// pipelineEnv holds the initialized store, clients and pipeline needed
// by the ingest/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens and pings the Postgres store.
func initStore(ctx context.Context) (store.Store, error) {
	return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.MaxConns, cfg.Store.MinConns)
}

// initPipeline sets up the store, all API clients and the pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate("pipeline"); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	schema, err := model.LoadSchema(cfg.Pipeline.SchemaPath)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load section schema")
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	deeplClient := deepl.NewClient(cfg.DeepL.Key, deepl.WithBaseURL(cfg.DeepL.BaseURL))
	resolver := pipeline.NewDeepLResolver(deeplClient, time.Duration(cfg.DeepL.CacheTTLMins)*time.Minute)

	// Image sources. Unsplash is optional; without a key the source
	// contributes nothing and wikimedia carries the stage.
	var unsplashClient unsplash.Client
	if cfg.Unsplash.Key != "" {
		unsplashClient = unsplash.NewClient(cfg.Unsplash.Key, unsplash.WithBaseURL(cfg.Unsplash.BaseURL))
		zap.L().Info("unsplash image source enabled")
	} else {
		unsplashClient = unsplash.NewClient("")
		zap.L().Debug("FLORA_UNSPLASH_KEY not set, unsplash searches will fail softly")
	}
	wikimediaClient := wikimedia.NewClient(
		wikimedia.WithBaseURL(cfg.Wikimedia.BaseURL),
		wikimedia.WithThumbSize(cfg.Wikimedia.ThumbSize),
		wikimedia.WithUserAgent(cfg.Wikimedia.UserAgent),
	)

	media := mediastore.NewFTPStore(
		cfg.Media.FTPAddr,
		cfg.Media.FTPUser,
		cfg.Media.FTPPass,
		cfg.Media.RemoteDir,
		cfg.Media.PublicURL,
	)

	notifier, err := notify.New(cfg.Notify.URLs, time.Duration(cfg.Notify.TimeoutSecs)*time.Second)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "init notifier")
	}

	p := pipeline.New(cfg, schema, pipeline.Deps{
		Store:     st,
		Resolver:  resolver,
		Fill:      anthropicClient,
		Translate: deeplClient,
		Unsplash:  unsplashClient,
		Wikimedia: wikimediaClient,
		Media:     media,
		Notifier:  notifier,
	})

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
	}, nil
}
