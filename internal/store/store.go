package store

import (
	"context"

	"github.com/verdant-labs/flora-cli/internal/model"
)

// Store defines the persistence interface for the ingestion pipeline.
// Side-table families use replace-all semantics: each call deletes every
// existing row for the plant before inserting the new set.
type Store interface {
	// Base record
	UpsertPlant(ctx context.Context, p *model.Plant) error
	FindPlantIDByName(ctx context.Context, name string) (string, error)
	FindPlantIDByAlias(ctx context.Context, name string) (string, error)
	DeletePlant(ctx context.Context, plantID string) error

	// Side tables
	ReplaceColors(ctx context.Context, plantID string, rows []model.Color) error
	ReplaceImages(ctx context.Context, plantID string, rows []model.Image) error
	ReplaceWateringSchedules(ctx context.Context, plantID string, rows []model.WateringSchedule) error
	ReplaceSources(ctx context.Context, plantID string, rows []model.Source) error
	ReplaceContributors(ctx context.Context, plantID string, rows []model.Contributor) error
	ReplaceInfusionMixes(ctx context.Context, plantID string, rows []model.InfusionMix) error
	ReplaceRecipes(ctx context.Context, plantID string, rows []model.Recipe) error

	// Translations
	UpsertTranslation(ctx context.Context, t model.Translation) error
	UpsertTranslations(ctx context.Context, ts []model.Translation) error
	DeleteTranslations(ctx context.Context, plantID string) error

	// Request queue
	CreateRequest(ctx context.Context, r model.Request) error
	ListPendingRequests(ctx context.Context, limit int) ([]model.Request, error)
	DeleteRequest(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
