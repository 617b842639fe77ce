package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/pkg/anthropic"
	"github.com/verdant-labs/flora-cli/pkg/deepl"
	"github.com/verdant-labs/flora-cli/pkg/unsplash"
	"github.com/verdant-labs/flora-cli/pkg/wikimedia"
)

// --- Resolver Mock ---

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, raw string) (ResolvedName, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(ResolvedName), args.Error(1)
}

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// --- DeepL Mock ---

type mockDeepLClient struct {
	mock.Mock
}

func (m *mockDeepLClient) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) (*deepl.TranslateResponse, error) {
	args := m.Called(ctx, texts, sourceLang, targetLang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deepl.TranslateResponse), args.Error(1)
}

// --- Unsplash Mock ---

type mockUnsplashClient struct {
	mock.Mock
}

func (m *mockUnsplashClient) Search(ctx context.Context, query string, perPage int) ([]unsplash.Photo, error) {
	args := m.Called(ctx, query, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]unsplash.Photo), args.Error(1)
}

// --- Wikimedia Mock ---

type mockWikimediaClient struct {
	mock.Mock
}

func (m *mockWikimediaClient) PageImage(ctx context.Context, title string) (*wikimedia.PageImageResult, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wikimedia.PageImageResult), args.Error(1)
}

// --- Media Store Mock ---

type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Upload(ctx context.Context, sourceURL, destName string) (string, error) {
	args := m.Called(ctx, sourceURL, destName)
	return args.String(0), args.Error(1)
}

// --- Notifier Mock ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) RecordCreated(ctx context.Context, plantID, name, requester string) error {
	args := m.Called(ctx, plantID, name, requester)
	return args.Error(0)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpsertPlant(ctx context.Context, p *model.Plant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) FindPlantIDByName(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *mockStore) FindPlantIDByAlias(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *mockStore) DeletePlant(ctx context.Context, plantID string) error {
	args := m.Called(ctx, plantID)
	return args.Error(0)
}

func (m *mockStore) ReplaceColors(ctx context.Context, plantID string, rows []model.Color) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) ReplaceImages(ctx context.Context, plantID string, rows []model.Image) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) ReplaceWateringSchedules(ctx context.Context, plantID string, rows []model.WateringSchedule) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) ReplaceSources(ctx context.Context, plantID string, rows []model.Source) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) ReplaceContributors(ctx context.Context, plantID string, rows []model.Contributor) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) ReplaceInfusionMixes(ctx context.Context, plantID string, rows []model.InfusionMix) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) ReplaceRecipes(ctx context.Context, plantID string, rows []model.Recipe) error {
	args := m.Called(ctx, plantID, rows)
	return args.Error(0)
}

func (m *mockStore) UpsertTranslation(ctx context.Context, t model.Translation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockStore) UpsertTranslations(ctx context.Context, ts []model.Translation) error {
	args := m.Called(ctx, ts)
	return args.Error(0)
}

func (m *mockStore) DeleteTranslations(ctx context.Context, plantID string) error {
	args := m.Called(ctx, plantID)
	return args.Error(0)
}

func (m *mockStore) CreateRequest(ctx context.Context, r model.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockStore) ListPendingRequests(ctx context.Context, limit int) ([]model.Request, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *mockStore) DeleteRequest(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Waiter Stub ---

// countingWaiter records how many times the pipeline paced between
// external calls.
type countingWaiter struct {
	waits int
}

func (w *countingWaiter) Wait(ctx context.Context) error {
	w.waits++
	return ctx.Err()
}
