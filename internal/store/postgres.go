package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/verdant-labs/flora-cli/internal/db"
	"github.com/verdant-labs/flora-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, maxConns, minConns int32) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	if maxConns <= 0 {
		maxConns = 10
	}
	if minConns <= 0 {
		minConns = 2
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS plants (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'in_progress',
	scientific_name  TEXT NOT NULL DEFAULT '',
	family           TEXT NOT NULL DEFAULT '',
	genus            TEXT NOT NULL DEFAULT '',
	plant_type       TEXT NOT NULL DEFAULT '',
	light            TEXT NOT NULL DEFAULT '',
	soil             TEXT NOT NULL DEFAULT '',
	water_need       TEXT NOT NULL DEFAULT '',
	hardiness        TEXT NOT NULL DEFAULT '',
	difficulty       TEXT NOT NULL DEFAULT '',
	growth_rate      TEXT NOT NULL DEFAULT '',
	height_cm        INTEGER NOT NULL DEFAULT 0,
	spread_cm        INTEGER NOT NULL DEFAULT 0,
	indoor           BOOLEAN NOT NULL DEFAULT false,
	pet_safe         BOOLEAN NOT NULL DEFAULT false,
	toxicity         TEXT NOT NULL DEFAULT '',
	sowing_months    TEXT[] NOT NULL DEFAULT '{}',
	flowering_months TEXT[] NOT NULL DEFAULT '{}',
	fruiting_months  TEXT[] NOT NULL DEFAULT '{}',
	germination_days INTEGER NOT NULL DEFAULT 0,
	origins          TEXT[] NOT NULL DEFAULT '{}',
	pollinators      TEXT[] NOT NULL DEFAULT '{}',
	bee_friendly     BOOLEAN NOT NULL DEFAULT false,
	edible           BOOLEAN NOT NULL DEFAULT false,
	edible_parts     TEXT[] NOT NULL DEFAULT '{}',
	medicinal        BOOLEAN NOT NULL DEFAULT false,
	nutrition_facts  TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	care_advice      TEXT NOT NULL DEFAULT '',
	pruning_advice   TEXT NOT NULL DEFAULT '',
	harvest_advice   TEXT NOT NULL DEFAULT '',
	common_names     TEXT[] NOT NULL DEFAULT '{}',
	companion_plants TEXT[] NOT NULL DEFAULT '{}',
	common_pests     TEXT[] NOT NULL DEFAULT '{}',
	common_diseases  TEXT[] NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_plants_name ON plants(lower(name));
CREATE INDEX IF NOT EXISTS idx_plants_scientific_name ON plants(lower(scientific_name));

CREATE TABLE IF NOT EXISTS plant_colors (
	plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	part     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plant_images (
	plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	url      TEXT NOT NULL,
	source   TEXT NOT NULL DEFAULT '',
	role     TEXT NOT NULL DEFAULT 'other'
);

CREATE TABLE IF NOT EXISTS plant_watering (
	plant_id      TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	season        TEXT NOT NULL,
	interval_days INTEGER NOT NULL DEFAULT 7,
	amount        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plant_sources (
	plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	url      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plant_contributors (
	plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	role     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plant_infusions (
	plant_id    TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	ingredients TEXT[] NOT NULL DEFAULT '{}',
	preparation TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plant_recipes (
	plant_id     TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	ingredients  TEXT[] NOT NULL DEFAULT '{}',
	instructions TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plant_translations (
	plant_id         TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	lang             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	care_advice      TEXT NOT NULL DEFAULT '',
	pruning_advice   TEXT NOT NULL DEFAULT '',
	harvest_advice   TEXT NOT NULL DEFAULT '',
	nutrition_facts  TEXT NOT NULL DEFAULT '',
	common_names     TEXT[] NOT NULL DEFAULT '{}',
	edible_parts     TEXT[] NOT NULL DEFAULT '{}',
	companion_plants TEXT[] NOT NULL DEFAULT '{}',
	common_pests     TEXT[] NOT NULL DEFAULT '{}',
	common_diseases  TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (plant_id, lang)
);

CREATE TABLE IF NOT EXISTS plant_requests (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	requester  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_plant_colors_plant_id ON plant_colors(plant_id);
CREATE INDEX IF NOT EXISTS idx_plant_images_plant_id ON plant_images(plant_id);
CREATE INDEX IF NOT EXISTS idx_plant_translations_plant_id ON plant_translations(plant_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const upsertPlantSQL = `INSERT INTO plants (
	id, name, status, scientific_name, family, genus, plant_type,
	light, soil, water_need, hardiness, difficulty, growth_rate,
	height_cm, spread_cm, indoor, pet_safe, toxicity,
	sowing_months, flowering_months, fruiting_months, germination_days,
	origins, pollinators, bee_friendly,
	edible, edible_parts, medicinal, nutrition_facts,
	description, care_advice, pruning_advice, harvest_advice,
	common_names, companion_plants, common_pests, common_diseases,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7,
	$8, $9, $10, $11, $12, $13,
	$14, $15, $16, $17, $18,
	$19, $20, $21, $22,
	$23, $24, $25,
	$26, $27, $28, $29,
	$30, $31, $32, $33,
	$34, $35, $36, $37,
	$38, $39
) ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, status = EXCLUDED.status,
	scientific_name = EXCLUDED.scientific_name, family = EXCLUDED.family,
	genus = EXCLUDED.genus, plant_type = EXCLUDED.plant_type,
	light = EXCLUDED.light, soil = EXCLUDED.soil,
	water_need = EXCLUDED.water_need, hardiness = EXCLUDED.hardiness,
	difficulty = EXCLUDED.difficulty, growth_rate = EXCLUDED.growth_rate,
	height_cm = EXCLUDED.height_cm, spread_cm = EXCLUDED.spread_cm,
	indoor = EXCLUDED.indoor, pet_safe = EXCLUDED.pet_safe,
	toxicity = EXCLUDED.toxicity,
	sowing_months = EXCLUDED.sowing_months,
	flowering_months = EXCLUDED.flowering_months,
	fruiting_months = EXCLUDED.fruiting_months,
	germination_days = EXCLUDED.germination_days,
	origins = EXCLUDED.origins, pollinators = EXCLUDED.pollinators,
	bee_friendly = EXCLUDED.bee_friendly,
	edible = EXCLUDED.edible, edible_parts = EXCLUDED.edible_parts,
	medicinal = EXCLUDED.medicinal, nutrition_facts = EXCLUDED.nutrition_facts,
	description = EXCLUDED.description, care_advice = EXCLUDED.care_advice,
	pruning_advice = EXCLUDED.pruning_advice, harvest_advice = EXCLUDED.harvest_advice,
	common_names = EXCLUDED.common_names,
	companion_plants = EXCLUDED.companion_plants,
	common_pests = EXCLUDED.common_pests,
	common_diseases = EXCLUDED.common_diseases,
	updated_at = EXCLUDED.updated_at`

func (s *PostgresStore) UpsertPlant(ctx context.Context, p *model.Plant) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.pool.Exec(ctx, upsertPlantSQL,
		p.ID, p.Name, string(p.Status), p.ScientificName, p.Family, p.Genus, p.PlantType,
		p.Light, p.Soil, p.WaterNeed, p.Hardiness, p.Difficulty, p.GrowthRate,
		p.HeightCM, p.SpreadCM, p.Indoor, p.PetSafe, p.Toxicity,
		p.SowingMonths, p.FloweringMonths, p.FruitingMonths, p.GerminationDays,
		p.Origins, p.Pollinators, p.BeeFriendly,
		p.Edible, p.EdibleParts, p.Medicinal, p.NutritionFacts,
		p.Description, p.CareAdvice, p.PruningAdvice, p.HarvestAdvice,
		p.CommonNames, p.CompanionPlants, p.CommonPests, p.CommonDiseases,
		p.CreatedAt, p.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert plant %s", p.ID)
}

func (s *PostgresStore) FindPlantIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM plants WHERE lower(name) = lower($1) OR lower(scientific_name) = lower($1) LIMIT 1`,
		name,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", eris.Wrap(err, "postgres: find plant by name")
	}
	return id, nil
}

func (s *PostgresStore) FindPlantIDByAlias(ctx context.Context, name string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT plant_id FROM plant_translations
		 WHERE EXISTS (SELECT 1 FROM unnest(common_names) AS alias WHERE lower(alias) = lower($1))
		 LIMIT 1`,
		name,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", eris.Wrap(err, "postgres: find plant by alias")
	}
	return id, nil
}

func (s *PostgresStore) DeletePlant(ctx context.Context, plantID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM plants WHERE id = $1`, plantID)
	return eris.Wrapf(err, "postgres: delete plant %s", plantID)
}

func (s *PostgresStore) ReplaceColors(ctx context.Context, plantID string, colors []model.Color) error {
	// Case-insensitive dedup by name keeps cosmetic duplicates like
	// "Red"/"red" out of the table.
	seen := make(map[string]bool, len(colors))
	rows := make([][]any, 0, len(colors))
	for _, c := range colors {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, []any{plantID, c.Name, c.Part})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_colors", "plant_id", plantID,
		[]string{"plant_id", "name", "part"}, rows)
	return eris.Wrapf(err, "postgres: replace colors for %s", plantID)
}

func (s *PostgresStore) ReplaceImages(ctx context.Context, plantID string, images []model.Image) error {
	rows := make([][]any, 0, len(images))
	for _, img := range images {
		rows = append(rows, []any{plantID, img.URL, img.Source, string(img.Role)})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_images", "plant_id", plantID,
		[]string{"plant_id", "url", "source", "role"}, rows)
	return eris.Wrapf(err, "postgres: replace images for %s", plantID)
}

func (s *PostgresStore) ReplaceWateringSchedules(ctx context.Context, plantID string, scheds []model.WateringSchedule) error {
	rows := make([][]any, 0, len(scheds))
	for _, w := range scheds {
		rows = append(rows, []any{plantID, w.Season, w.IntervalDays, w.Amount})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_watering", "plant_id", plantID,
		[]string{"plant_id", "season", "interval_days", "amount"}, rows)
	return eris.Wrapf(err, "postgres: replace watering for %s", plantID)
}

func (s *PostgresStore) ReplaceSources(ctx context.Context, plantID string, sources []model.Source) error {
	rows := make([][]any, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, []any{plantID, src.Name, src.URL})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_sources", "plant_id", plantID,
		[]string{"plant_id", "name", "url"}, rows)
	return eris.Wrapf(err, "postgres: replace sources for %s", plantID)
}

func (s *PostgresStore) ReplaceContributors(ctx context.Context, plantID string, contribs []model.Contributor) error {
	rows := make([][]any, 0, len(contribs))
	for _, c := range contribs {
		rows = append(rows, []any{plantID, c.Name, c.Role})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_contributors", "plant_id", plantID,
		[]string{"plant_id", "name", "role"}, rows)
	return eris.Wrapf(err, "postgres: replace contributors for %s", plantID)
}

func (s *PostgresStore) ReplaceInfusionMixes(ctx context.Context, plantID string, mixes []model.InfusionMix) error {
	rows := make([][]any, 0, len(mixes))
	for _, m := range mixes {
		rows = append(rows, []any{plantID, m.Name, m.Ingredients, m.Preparation})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_infusions", "plant_id", plantID,
		[]string{"plant_id", "name", "ingredients", "preparation"}, rows)
	return eris.Wrapf(err, "postgres: replace infusions for %s", plantID)
}

func (s *PostgresStore) ReplaceRecipes(ctx context.Context, plantID string, recipes []model.Recipe) error {
	rows := make([][]any, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []any{plantID, r.Name, r.Ingredients, r.Instructions})
	}
	err := db.ReplaceAll(ctx, s.pool, "plant_recipes", "plant_id", plantID,
		[]string{"plant_id", "name", "ingredients", "instructions"}, rows)
	return eris.Wrapf(err, "postgres: replace recipes for %s", plantID)
}

const upsertTranslationSQL = `INSERT INTO plant_translations (
	plant_id, lang, description, care_advice, pruning_advice,
	harvest_advice, nutrition_facts, common_names, edible_parts,
	companion_plants, common_pests, common_diseases
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (plant_id, lang) DO UPDATE SET
	description = EXCLUDED.description,
	care_advice = EXCLUDED.care_advice,
	pruning_advice = EXCLUDED.pruning_advice,
	harvest_advice = EXCLUDED.harvest_advice,
	nutrition_facts = EXCLUDED.nutrition_facts,
	common_names = EXCLUDED.common_names,
	edible_parts = EXCLUDED.edible_parts,
	companion_plants = EXCLUDED.companion_plants,
	common_pests = EXCLUDED.common_pests,
	common_diseases = EXCLUDED.common_diseases`

func (s *PostgresStore) UpsertTranslation(ctx context.Context, t model.Translation) error {
	_, err := s.pool.Exec(ctx, upsertTranslationSQL,
		t.PlantID, t.Lang, t.Description, t.CareAdvice, t.PruningAdvice,
		t.HarvestAdvice, t.NutritionFacts, t.CommonNames, t.EdibleParts,
		t.CompanionPlants, t.CommonPests, t.CommonDiseases,
	)
	return eris.Wrapf(err, "postgres: upsert translation %s/%s", t.PlantID, t.Lang)
}

func (s *PostgresStore) UpsertTranslations(ctx context.Context, ts []model.Translation) error {
	for _, t := range ts {
		if err := s.UpsertTranslation(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) DeleteTranslations(ctx context.Context, plantID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM plant_translations WHERE plant_id = $1`, plantID)
	return eris.Wrapf(err, "postgres: delete translations for %s", plantID)
}

func (s *PostgresStore) CreateRequest(ctx context.Context, r model.Request) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plant_requests (id, name, requester, created_at) VALUES ($1, $2, $3, $4)`,
		r.ID, r.Name, r.Requester, r.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: create request %s", r.ID)
}

func (s *PostgresStore) ListPendingRequests(ctx context.Context, limit int) ([]model.Request, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, requester, created_at FROM plant_requests ORDER BY created_at ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list requests")
	}
	defer rows.Close()

	var out []model.Request
	for rows.Next() {
		var r model.Request
		if err := rows.Scan(&r.ID, &r.Name, &r.Requester, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan request")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list requests iterate")
}

func (s *PostgresStore) DeleteRequest(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM plant_requests WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: delete request %s", id)
}
