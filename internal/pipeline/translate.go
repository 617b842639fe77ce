package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/model"
)

// listOffset records where one named list field sits inside the
// flattened translation batch, so translated items can be split back
// out afterwards.
type listOffset struct {
	name  string
	start int
	count int
}

// translateAll produces one Translation row per target language and
// writes them all in a single store call at the end. A language that
// fails is logged and skipped, never fatal. Only cancellation stops the
// stage, and it propagates so the caller can compensate.
func (p *Pipeline) translateAll(ctx context.Context, draft *model.Plant) error {
	canonical := model.CanonicalTranslation(draft)
	rows := make([]model.Translation, 0, len(model.TargetLangs()))

	for i, lang := range model.TargetLangs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if err := p.langPacer.Wait(ctx); err != nil {
				return err
			}
		}

		row, err := p.translateLanguage(ctx, &canonical, lang)
		if err != nil {
			if isCancellation(err) {
				return err
			}
			zap.L().Warn("pipeline: language translation failed, skipping",
				zap.String("plant_id", draft.ID),
				zap.String("lang", lang),
				zap.Error(err),
			)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil
	}
	if err := p.store.UpsertTranslations(ctx, rows); err != nil {
		if isCancellation(err) {
			return err
		}
		zap.L().Warn("pipeline: persist translations failed",
			zap.String("plant_id", draft.ID), zap.Error(err))
	}
	return nil
}

// translateLanguage produces one language's row in two passes: the
// scalar fields as a single batch, then every list field flattened into
// one item stream and translated in fixed-size chunks with pacing
// between chunks.
func (p *Pipeline) translateLanguage(ctx context.Context, canonical *model.Translation, lang string) (model.Translation, error) {
	target := strings.ToUpper(lang)
	row := model.Translation{PlantID: canonical.PlantID, Lang: lang}

	singles := []string{
		canonical.Description,
		canonical.CareAdvice,
		canonical.PruningAdvice,
		canonical.HarvestAdvice,
		canonical.NutritionFacts,
	}
	translated, err := p.translateBatch(ctx, singles, target)
	if err != nil {
		return model.Translation{}, eris.Wrapf(err, "pipeline: translate scalars to %s", lang)
	}
	row.Description = pickTranslated(translated, 0, canonical.Description)
	row.CareAdvice = pickTranslated(translated, 1, canonical.CareAdvice)
	row.PruningAdvice = pickTranslated(translated, 2, canonical.PruningAdvice)
	row.HarvestAdvice = pickTranslated(translated, 3, canonical.HarvestAdvice)
	row.NutritionFacts = pickTranslated(translated, 4, canonical.NutritionFacts)

	lists := map[string][]string{
		"common_names":     canonical.CommonNames,
		"edible_parts":     canonical.EdibleParts,
		"companion_plants": canonical.CompanionPlants,
		"common_pests":     canonical.CommonPests,
		"common_diseases":  canonical.CommonDiseases,
	}

	flat, offsets := flattenLists(lists)
	items, err := p.translateChunked(ctx, flat, target)
	if err != nil {
		return model.Translation{}, eris.Wrapf(err, "pipeline: translate lists to %s", lang)
	}
	split := splitLists(items, offsets)
	row.CommonNames = orFallback(split["common_names"], canonical.CommonNames)
	row.EdibleParts = orFallback(split["edible_parts"], canonical.EdibleParts)
	row.CompanionPlants = orFallback(split["companion_plants"], canonical.CompanionPlants)
	row.CommonPests = orFallback(split["common_pests"], canonical.CommonPests)
	row.CommonDiseases = orFallback(split["common_diseases"], canonical.CommonDiseases)

	return row, nil
}

// translateBatch translates texts in one call, skipping empty inputs
// but preserving positions so callers can index the result.
func (p *Pipeline) translateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	nonEmpty := make([]string, 0, len(texts))
	positions := make([]int, 0, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) != "" {
			nonEmpty = append(nonEmpty, t)
			positions = append(positions, i)
		}
	}

	out := make([]string, len(texts))
	if len(nonEmpty) == 0 {
		return out, nil
	}

	resp, err := p.translator.Translate(ctx, nonEmpty, strings.ToUpper(model.CanonicalLang), targetLang)
	if err != nil {
		return nil, err
	}
	got := resp.Texts()
	for i, pos := range positions {
		if i < len(got) {
			out[pos] = got[i]
		}
	}
	return out, nil
}

// translateChunked translates items in chunks of the configured size,
// pacing between chunks but not before the first. A response shorter
// than the chunk keeps the source text for the missing trailing items;
// extra entries are dropped.
func (p *Pipeline) translateChunked(ctx context.Context, items []string, targetLang string) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	chunkSize := p.cfg.Translate.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 50
	}

	out := make([]string, 0, len(items))
	for start := 0; start < len(items); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if start > 0 {
			if err := p.chunkPacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		resp, err := p.translator.Translate(ctx, items[start:end], strings.ToUpper(model.CanonicalLang), targetLang)
		if err != nil {
			return nil, err
		}
		got := resp.Texts()
		if len(got) > end-start {
			got = got[:end-start]
		}
		if len(got) < end-start {
			zap.L().Warn("pipeline: short translation response, keeping source for trailing items",
				zap.String("target_lang", targetLang),
				zap.Int("sent", end-start),
				zap.Int("got", len(got)),
			)
			got = append(got, items[start+len(got):end]...)
		}
		out = append(out, got...)
	}
	return out, nil
}

// flattenLists lays every list field out into a single slice, recording
// per-field offsets. Field order is fixed so batches are deterministic.
func flattenLists(lists map[string][]string) ([]string, []listOffset) {
	names := []string{"common_names", "edible_parts", "companion_plants", "common_pests", "common_diseases"}

	var flat []string
	var offsets []listOffset
	for _, name := range names {
		items := lists[name]
		if len(items) == 0 {
			continue
		}
		offsets = append(offsets, listOffset{name: name, start: len(flat), count: len(items)})
		flat = append(flat, items...)
	}
	return flat, offsets
}

func splitLists(items []string, offsets []listOffset) map[string][]string {
	out := make(map[string][]string, len(offsets))
	for _, off := range offsets {
		if off.start+off.count > len(items) {
			continue
		}
		out[off.name] = items[off.start : off.start+off.count]
	}
	return out
}

func pickTranslated(translated []string, idx int, fallback string) string {
	if idx < len(translated) && strings.TrimSpace(translated[idx]) != "" {
		return translated[idx]
	}
	return fallback
}

func orFallback(translated, fallback []string) []string {
	if len(translated) > 0 {
		return translated
	}
	return fallback
}
