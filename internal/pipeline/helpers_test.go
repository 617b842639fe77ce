package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/flora-cli/internal/config"
	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/pkg/anthropic"
	"github.com/verdant-labs/flora-cli/pkg/deepl"
)

// testEnv bundles a pipeline wired entirely to mocks.
type testEnv struct {
	store     *mockStore
	resolver  *mockResolver
	fill      *mockAnthropicClient
	translate *mockDeepLClient
	unsplash  *mockUnsplashClient
	wikimedia *mockWikimediaClient
	media     *mockMediaStore
	notifier  *mockNotifier

	chunkWaiter *countingWaiter
	langWaiter  *countingWaiter

	pipeline *Pipeline
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	schema, err := model.DefaultSchema()
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Anthropic.Model = "test-model"
	cfg.Anthropic.MaxTokens = 1024
	cfg.Pipeline.SectionFailureRatio = 0.5
	cfg.Pipeline.MaxImages = 4
	cfg.Unsplash.PerPage = 3
	cfg.Translate.ChunkSize = 50

	env := &testEnv{
		store:       &mockStore{},
		resolver:    &mockResolver{},
		fill:        &mockAnthropicClient{},
		translate:   &mockDeepLClient{},
		unsplash:    &mockUnsplashClient{},
		wikimedia:   &mockWikimediaClient{},
		media:       &mockMediaStore{},
		notifier:    &mockNotifier{},
		chunkWaiter: &countingWaiter{},
		langWaiter:  &countingWaiter{},
	}

	p := New(cfg, schema, Deps{
		Store:     env.store,
		Resolver:  env.resolver,
		Fill:      env.fill,
		Translate: env.translate,
		Unsplash:  env.unsplash,
		Wikimedia: env.wikimedia,
		Media:     env.media,
		Notifier:  env.notifier,
	})
	p.chunkPacer = env.chunkWaiter
	p.langPacer = env.langWaiter
	env.pipeline = p

	return env
}

// textResponse wraps a JSON string as an AI message response.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 10, OutputTokens: 20},
	}
}

// deeplResponse builds a response translating each text verbatim with a
// lang prefix, the way the tests tell languages apart.
func deeplResponse(prefix string, texts ...string) *deepl.TranslateResponse {
	resp := &deepl.TranslateResponse{}
	for _, t := range texts {
		resp.Translations = append(resp.Translations, deepl.Translation{Text: prefix + t})
	}
	return resp
}
