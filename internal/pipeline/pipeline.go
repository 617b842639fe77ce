// Package pipeline implements plant record ingestion: name resolution,
// duplicate detection, AI-driven field fill, record assembly, image
// acquisition, persistence, translation and compensating cleanup.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/config"
	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/internal/pacing"
	"github.com/verdant-labs/flora-cli/internal/store"
	"github.com/verdant-labs/flora-cli/pkg/anthropic"
	"github.com/verdant-labs/flora-cli/pkg/deepl"
	"github.com/verdant-labs/flora-cli/pkg/mediastore"
	"github.com/verdant-labs/flora-cli/pkg/notify"
	"github.com/verdant-labs/flora-cli/pkg/unsplash"
	"github.com/verdant-labs/flora-cli/pkg/wikimedia"
)

// waiter paces calls to an external service. Satisfied by pacing.Pacer;
// tests substitute their own.
type waiter interface {
	Wait(ctx context.Context) error
}

// Deps bundles the pipeline's collaborators.
type Deps struct {
	Store     store.Store
	Resolver  Resolver
	Fill      anthropic.Client
	Translate deepl.Client
	Unsplash  unsplash.Client
	Wikimedia wikimedia.Client
	Media     mediastore.Store
	Notifier  notify.Notifier
}

// Pipeline runs one ingestion request end to end.
type Pipeline struct {
	cfg    *config.Config
	schema *model.Schema

	store      store.Store
	resolver   Resolver
	fill       anthropic.Client
	translator deepl.Client
	unsplash   unsplash.Client
	wikimedia  wikimedia.Client
	media      mediastore.Store
	notifier   notify.Notifier

	failureRatio float64
	chunkPacer   waiter
	langPacer    waiter
}

// New assembles a pipeline from configuration and collaborators.
func New(cfg *config.Config, schema *model.Schema, deps Deps) *Pipeline {
	ratio := cfg.Pipeline.SectionFailureRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.5
	}
	return &Pipeline{
		cfg:          cfg,
		schema:       schema,
		store:        deps.Store,
		resolver:     deps.Resolver,
		fill:         deps.Fill,
		translator:   deps.Translate,
		unsplash:     deps.Unsplash,
		wikimedia:    deps.Wikimedia,
		media:        deps.Media,
		notifier:     deps.Notifier,
		failureRatio: ratio,
		chunkPacer:   pacing.NewPacer(time.Duration(cfg.Translate.PacingMS) * time.Millisecond),
		langPacer:    pacing.NewPacer(time.Duration(cfg.Translate.LanguagePacingMS) * time.Millisecond),
	}
}

// Run processes one ingestion request to a terminal outcome. Every
// request ends in exactly one of created, duplicate, failed or
// cancelled; partial writes are compensated before a failed or
// cancelled outcome is reported.
func (p *Pipeline) Run(ctx context.Context, req model.Request, hooks *Hooks) Outcome {
	outcome := p.run(ctx, req, hooks)

	zap.L().Info("pipeline: request finished",
		zap.String("request_id", req.ID),
		zap.String("name", req.Name),
		zap.String("status", string(outcome.Status)),
		zap.String("plant_id", outcome.PlantID),
	)
	return outcome
}

func (p *Pipeline) run(ctx context.Context, req model.Request, hooks *Hooks) Outcome {
	// Stage 1: resolve the request string to a canonical English name.
	// Never fails; worst case we normalize the raw input.
	hooks.stageStart("resolve")
	resolved := p.resolveName(ctx, req.Name)
	hooks.stageDone("resolve", nil)
	if err := ctx.Err(); err != nil {
		return Outcome{Status: OutcomeCancelled, Message: err.Error()}
	}

	// Stage 2: duplicate guard. An existing record with the same name or
	// alias short-circuits the whole request.
	hooks.stageStart("duplicate-check")
	existingID, err := p.findExisting(ctx, resolved.Name)
	hooks.stageDone("duplicate-check", err)
	if err != nil {
		if isCancellation(err) {
			return Outcome{Status: OutcomeCancelled, Message: err.Error()}
		}
		return Outcome{Status: OutcomeFailed, Message: eris.ToString(err, false)}
	}
	if existingID != "" {
		p.finishRequest(req)
		return Outcome{
			Status:  OutcomeDuplicate,
			PlantID: existingID,
			Message: "record already exists for " + resolved.Name,
		}
	}

	draft := &model.Plant{
		ID:        uuid.New().String(),
		Name:      resolved.Name,
		Status:    model.StatusInProgress,
		CreatedAt: time.Now().UTC(),
	}

	// Stage 3: AI field fill. Nothing has been persisted yet, so a fatal
	// fill error needs no compensation.
	hooks.stageStart("fill")
	fillResult, err := p.fillSections(ctx, draft.Name, hooks)
	hooks.stageDone("fill", err)
	if err != nil {
		if isCancellation(err) {
			return Outcome{Status: OutcomeCancelled, Message: err.Error()}
		}
		return Outcome{Status: OutcomeFailed, Message: eris.ToString(err, false)}
	}
	zap.L().Debug("pipeline: fill complete",
		zap.String("name", draft.Name),
		zap.Int("sections", len(fillResult.Payloads)),
		zap.Int("failed", len(fillResult.Failed)),
		zap.Int64("input_tokens", fillResult.Usage.InputTokens),
		zap.Int64("output_tokens", fillResult.Usage.OutputTokens),
	)

	// Stage 4: assemble the draft from the raw payloads.
	hooks.stageStart("assemble")
	Assemble(draft, fillResult.Payloads)
	if req.Requester != "" {
		draft.Contributors = append(draft.Contributors, model.Contributor{
			Name: req.Requester,
			Role: "requester",
		})
	}
	hooks.stageDone("assemble", nil)

	// Stage 5: image acquisition, best effort.
	hooks.stageStart("images")
	err = p.acquireImages(ctx, draft, hooks)
	hooks.stageDone("images", err)
	if err != nil {
		return Outcome{Status: OutcomeCancelled, Message: err.Error()}
	}

	// Stage 6: persist the base record, side tables and the canonical
	// translation row. From here on any abort must compensate.
	hooks.stageStart("persist")
	err = p.persist(ctx, draft)
	hooks.stageDone("persist", err)
	if err != nil {
		p.cleanup(draft.ID)
		if isCancellation(err) {
			return Outcome{Status: OutcomeCancelled, PlantID: draft.ID, Message: err.Error()}
		}
		return Outcome{Status: OutcomeFailed, PlantID: draft.ID, Message: eris.ToString(err, false)}
	}

	// Stage 7: translations. Per-language failure is soft; only
	// cancellation aborts, and then the whole record is compensated.
	hooks.stageStart("translate")
	err = p.translateAll(ctx, draft)
	hooks.stageDone("translate", err)
	if err != nil {
		p.cleanup(draft.ID)
		return Outcome{Status: OutcomeCancelled, PlantID: draft.ID, Message: err.Error()}
	}

	// Finalize: mark complete, notify, retire the request. All soft.
	draft.Status = model.StatusComplete
	if err := p.store.UpsertPlant(ctx, draft); err != nil {
		zap.L().Warn("pipeline: mark complete failed",
			zap.String("plant_id", draft.ID), zap.Error(err))
	}
	if err := p.notifier.RecordCreated(ctx, draft.ID, draft.Name, req.Requester); err != nil {
		zap.L().Warn("pipeline: notification failed",
			zap.String("plant_id", draft.ID), zap.Error(err))
	}
	p.finishRequest(req)

	return Outcome{Status: OutcomeCreated, PlantID: draft.ID}
}

// findExisting checks name then aliases for a record that already
// covers the resolved name. Matching is exact and case-insensitive;
// fuzzy matching is intentionally out.
func (p *Pipeline) findExisting(ctx context.Context, name string) (string, error) {
	id, err := p.store.FindPlantIDByName(ctx, name)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: duplicate check by name")
	}
	if id != "" {
		return id, nil
	}
	id, err = p.store.FindPlantIDByAlias(ctx, name)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: duplicate check by alias")
	}
	return id, nil
}

// persist writes the base record first, then every side-table family,
// then the canonical translation row. Write order matters: cleanup
// compensates in reverse.
func (p *Pipeline) persist(ctx context.Context, draft *model.Plant) error {
	if err := p.store.UpsertPlant(ctx, draft); err != nil {
		return eris.Wrap(err, "pipeline: upsert plant")
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"colors", func() error { return p.store.ReplaceColors(ctx, draft.ID, draft.Colors) }},
		{"images", func() error { return p.store.ReplaceImages(ctx, draft.ID, draft.Images) }},
		{"watering schedules", func() error { return p.store.ReplaceWateringSchedules(ctx, draft.ID, draft.WateringSchedules) }},
		{"sources", func() error { return p.store.ReplaceSources(ctx, draft.ID, draft.Sources) }},
		{"contributors", func() error { return p.store.ReplaceContributors(ctx, draft.ID, draft.Contributors) }},
		{"infusion mixes", func() error { return p.store.ReplaceInfusionMixes(ctx, draft.ID, draft.InfusionMixes) }},
		{"recipes", func() error { return p.store.ReplaceRecipes(ctx, draft.ID, draft.Recipes) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return eris.Wrapf(err, "pipeline: replace %s", step.name)
		}
	}

	if err := p.store.UpsertTranslation(ctx, model.CanonicalTranslation(draft)); err != nil {
		return eris.Wrap(err, "pipeline: upsert canonical translation")
	}
	return nil
}

// finishRequest retires the originating request. Failure here never
// changes the outcome; the request will simply be seen again and
// short-circuit as a duplicate.
func (p *Pipeline) finishRequest(req model.Request) {
	if req.ID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.store.DeleteRequest(ctx, req.ID); err != nil {
		zap.L().Warn("pipeline: delete request failed",
			zap.String("request_id", req.ID), zap.Error(err))
	}
}
