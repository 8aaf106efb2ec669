package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type scannable interface {
	Scan(dest ...any) error
}

// PostgresStore implements Store on the tables created by the migrations
// directory.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a new PostgreSQL-backed listing store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping reports whether the database is reachable.
func (p *PostgresStore) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("listing: ping: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func queryAll[T any](ctx context.Context, db DB, scan func(scannable) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		record, err := scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (p *PostgresStore) deleteByID(ctx context.Context, query, id string) error {
	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// series
// ---------------------------------------------------------------------------

const seriesColumns = `id, name, floor_area, loft_ready, description, long_description,
	features, specifications, base_price, floor_plan_image, image_url,
	developer, project, property_option`

func scanSeries(s scannable) (Series, error) {
	var series Series
	err := s.Scan(
		&series.ID, &series.Name, &series.FloorArea, &series.LoftReady, &series.Description, &series.LongDescription,
		&series.Features, &series.Specifications, &series.BasePrice, &series.FloorPlanImage, &series.ImageURL,
		&series.Developer, &series.Project, &series.PropertyOption,
	)
	if err != nil {
		return Series{}, fmt.Errorf("scan series: %w", notFound(err))
	}
	return series, nil
}

func (p *PostgresStore) ListSeries(ctx context.Context) ([]Series, error) {
	series, err := queryAll(ctx, p.db, scanSeries, `SELECT `+seriesColumns+` FROM series ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	return series, nil
}

func (p *PostgresStore) GetSeries(ctx context.Context, id string) (Series, error) {
	return scanSeries(p.db.QueryRow(ctx, `SELECT `+seriesColumns+` FROM series WHERE id = $1`, id))
}

func (p *PostgresStore) SaveSeries(ctx context.Context, s Series) (Series, error) {
	s.ID = assignID(s.ID)
	query := `
		INSERT INTO series (` + seriesColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			name             = EXCLUDED.name,
			floor_area       = EXCLUDED.floor_area,
			loft_ready       = EXCLUDED.loft_ready,
			description      = EXCLUDED.description,
			long_description = EXCLUDED.long_description,
			features         = EXCLUDED.features,
			specifications   = EXCLUDED.specifications,
			base_price       = EXCLUDED.base_price,
			floor_plan_image = EXCLUDED.floor_plan_image,
			image_url        = EXCLUDED.image_url,
			developer        = EXCLUDED.developer,
			project          = EXCLUDED.project,
			property_option  = EXCLUDED.property_option,
			updated_at       = now()
	`
	_, err := p.db.Exec(ctx, query,
		s.ID, s.Name, s.FloorArea, s.LoftReady, s.Description, s.LongDescription,
		nonNil(s.Features), s.Specifications, s.BasePrice, s.FloorPlanImage, s.ImageURL,
		s.Developer, s.Project, string(s.PropertyOption),
	)
	if err != nil {
		return Series{}, fmt.Errorf("save series: %w", err)
	}
	return s, nil
}

func (p *PostgresStore) DeleteSeries(ctx context.Context, id string) error {
	if err := p.deleteByID(ctx, `DELETE FROM series WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// units
// ---------------------------------------------------------------------------

const unitColumns = `id, series_id, name, series_name, description, price, lot_only_price,
	house_construction_price, location, status, is_rfo, features, floor_plan_image,
	image_url, lot_area, floor_area, completion_date, construction_progress, property_option`

func scanUnit(s scannable) (Unit, error) {
	var u Unit
	err := s.Scan(
		&u.ID, &u.SeriesID, &u.Name, &u.SeriesName, &u.Description, &u.Price, &u.LotOnlyPrice,
		&u.HouseConstructionPrice, &u.Location, &u.Status, &u.IsRFO, &u.Features, &u.FloorPlanImage,
		&u.ImageURL, &u.LotArea, &u.FloorArea, &u.CompletionDate, &u.ConstructionProgress, &u.PropertyOption,
	)
	if err != nil {
		return Unit{}, fmt.Errorf("scan unit: %w", notFound(err))
	}
	return u, nil
}

func (p *PostgresStore) ListUnits(ctx context.Context) ([]Unit, error) {
	units, err := queryAll(ctx, p.db, scanUnit, `SELECT `+unitColumns+` FROM units ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	return units, nil
}

func (p *PostgresStore) ListUnitsBySeries(ctx context.Context, seriesID string) ([]Unit, error) {
	units, err := queryAll(ctx, p.db, scanUnit, `SELECT `+unitColumns+` FROM units WHERE series_id = $1 ORDER BY id`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("query units for series %s: %w", seriesID, err)
	}
	return units, nil
}

func (p *PostgresStore) GetUnit(ctx context.Context, id string) (Unit, error) {
	return scanUnit(p.db.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id))
}

func (p *PostgresStore) SaveUnit(ctx context.Context, u Unit) (Unit, error) {
	u.ID = assignID(u.ID)
	query := `
		INSERT INTO units (` + unitColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			series_id                = EXCLUDED.series_id,
			name                     = EXCLUDED.name,
			series_name              = EXCLUDED.series_name,
			description              = EXCLUDED.description,
			price                    = EXCLUDED.price,
			lot_only_price           = EXCLUDED.lot_only_price,
			house_construction_price = EXCLUDED.house_construction_price,
			location                 = EXCLUDED.location,
			status                   = EXCLUDED.status,
			is_rfo                   = EXCLUDED.is_rfo,
			features                 = EXCLUDED.features,
			floor_plan_image         = EXCLUDED.floor_plan_image,
			image_url                = EXCLUDED.image_url,
			lot_area                 = EXCLUDED.lot_area,
			floor_area               = EXCLUDED.floor_area,
			completion_date          = EXCLUDED.completion_date,
			construction_progress    = EXCLUDED.construction_progress,
			property_option          = EXCLUDED.property_option,
			updated_at               = now()
	`
	_, err := p.db.Exec(ctx, query,
		u.ID, u.SeriesID, u.Name, u.SeriesName, u.Description, u.Price, u.LotOnlyPrice,
		u.HouseConstructionPrice, u.Location, u.Status, u.IsRFO, nonNil(u.Features), u.FloorPlanImage,
		u.ImageURL, u.LotArea, u.FloorArea, u.CompletionDate, u.ConstructionProgress, string(u.PropertyOption),
	)
	if err != nil {
		return Unit{}, fmt.Errorf("save unit: %w", err)
	}
	return u, nil
}

func (p *PostgresStore) DeleteUnit(ctx context.Context, id string) error {
	if err := p.deleteByID(ctx, `DELETE FROM units WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// lot only
// ---------------------------------------------------------------------------

const lotOnlyColumns = `id, name, description, price, property_option, location, project,
	developer, status, lot_area, features, image_url, zoning, utilities, nearby_amenities`

func scanLotOnly(s scannable) (LotOnly, error) {
	var l LotOnly
	err := s.Scan(
		&l.ID, &l.Name, &l.Description, &l.Price, &l.PropertyOption, &l.Location, &l.Project,
		&l.Developer, &l.Status, &l.LotArea, &l.Features, &l.ImageURL, &l.Zoning, &l.Utilities, &l.NearbyAmenities,
	)
	if err != nil {
		return LotOnly{}, fmt.Errorf("scan lot: %w", notFound(err))
	}
	return l, nil
}

func (p *PostgresStore) ListLotOnly(ctx context.Context) ([]LotOnly, error) {
	lots, err := queryAll(ctx, p.db, scanLotOnly, `SELECT `+lotOnlyColumns+` FROM lot_only ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	return lots, nil
}

func (p *PostgresStore) GetLotOnly(ctx context.Context, id string) (LotOnly, error) {
	return scanLotOnly(p.db.QueryRow(ctx, `SELECT `+lotOnlyColumns+` FROM lot_only WHERE id = $1`, id))
}

func (p *PostgresStore) SaveLotOnly(ctx context.Context, l LotOnly) (LotOnly, error) {
	l.ID = assignID(l.ID)
	query := `
		INSERT INTO lot_only (` + lotOnlyColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
			name             = EXCLUDED.name,
			description      = EXCLUDED.description,
			price            = EXCLUDED.price,
			property_option  = EXCLUDED.property_option,
			location         = EXCLUDED.location,
			project          = EXCLUDED.project,
			developer        = EXCLUDED.developer,
			status           = EXCLUDED.status,
			lot_area         = EXCLUDED.lot_area,
			features         = EXCLUDED.features,
			image_url        = EXCLUDED.image_url,
			zoning           = EXCLUDED.zoning,
			utilities        = EXCLUDED.utilities,
			nearby_amenities = EXCLUDED.nearby_amenities,
			updated_at       = now()
	`
	_, err := p.db.Exec(ctx, query,
		l.ID, l.Name, l.Description, l.Price, string(l.PropertyOption), l.Location, l.Project,
		l.Developer, l.Status, l.LotArea, nonNil(l.Features), l.ImageURL, l.Zoning, nonNil(l.Utilities), nonNil(l.NearbyAmenities),
	)
	if err != nil {
		return LotOnly{}, fmt.Errorf("save lot: %w", err)
	}
	return l, nil
}

func (p *PostgresStore) DeleteLotOnly(ctx context.Context, id string) error {
	if err := p.deleteByID(ctx, `DELETE FROM lot_only WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// agents
// ---------------------------------------------------------------------------

const agentColumns = `id, name, brokerage, classification, team`

func scanAgent(s scannable) (Agent, error) {
	var a Agent
	if err := s.Scan(&a.ID, &a.Name, &a.Brokerage, &a.Classification, &a.Team); err != nil {
		return Agent{}, fmt.Errorf("scan agent: %w", notFound(err))
	}
	return a, nil
}

func (p *PostgresStore) ListAgents(ctx context.Context) ([]Agent, error) {
	agents, err := queryAll(ctx, p.db, scanAgent, `SELECT `+agentColumns+` FROM agents ORDER BY lower(id)`)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	return agents, nil
}

func (p *PostgresStore) GetAgent(ctx context.Context, id string) (Agent, error) {
	return scanAgent(p.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE lower(id) = $1`, agentKey(id)))
}

func (p *PostgresStore) SaveAgent(ctx context.Context, a Agent) (Agent, error) {
	a.ID = assignID(a.ID)
	query := `
		INSERT INTO agents (` + agentColumns + `)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
			name           = EXCLUDED.name,
			brokerage      = EXCLUDED.brokerage,
			classification = EXCLUDED.classification,
			team           = EXCLUDED.team,
			updated_at     = now()
	`
	if _, err := p.db.Exec(ctx, query, a.ID, a.Name, a.Brokerage, a.Classification, a.Team); err != nil {
		return Agent{}, fmt.Errorf("save agent: %w", err)
	}
	return a, nil
}

func (p *PostgresStore) DeleteAgent(ctx context.Context, id string) error {
	if err := p.deleteByID(ctx, `DELETE FROM agents WHERE lower(id) = $1`, agentKey(id)); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// developers
// ---------------------------------------------------------------------------

func scanDeveloper(s scannable) (Developer, error) {
	var d Developer
	if err := s.Scan(&d.ID, &d.Name, &d.Color, &d.Description); err != nil {
		return Developer{}, fmt.Errorf("scan developer: %w", err)
	}
	return d, nil
}

func scanProject(s scannable) (DeveloperProject, error) {
	var p DeveloperProject
	err := s.Scan(&p.ID, &p.DeveloperID, &p.Name, &p.Description, &p.Location,
		&p.PropertyType, &p.LotArea, &p.Status, &p.ImageURL)
	if err != nil {
		return DeveloperProject{}, fmt.Errorf("scan developer project: %w", err)
	}
	return p, nil
}

func (p *PostgresStore) ListDevelopers(ctx context.Context) ([]Developer, error) {
	developers, err := queryAll(ctx, p.db, scanDeveloper,
		`SELECT id, name, color, description FROM developers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query developers: %w", err)
	}
	return developers, nil
}

func (p *PostgresStore) ListDeveloperProjects(ctx context.Context, developerID string) ([]DeveloperProject, error) {
	query := `
		SELECT id, developer_id, name, description, location, property_type, lot_area, status, image_url
		FROM developer_projects
		WHERE $1 = '' OR developer_id = $1
		ORDER BY id
	`
	projects, err := queryAll(ctx, p.db, scanProject, query, developerID)
	if err != nil {
		return nil, fmt.Errorf("query developer projects: %w", err)
	}
	return projects, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
