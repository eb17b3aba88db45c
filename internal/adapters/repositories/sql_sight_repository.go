package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
)

// SQL-backed implementation of the SightRepository port. Weather tags are
// stored as one "|"-separated column.
type SQLSightRepository struct{ DB *sqlx.DB }

func NewSQLSightRepository(db *sqlx.DB) *SQLSightRepository {
	return &SQLSightRepository{DB: db}
}

type sightRow struct {
	Name               string  `db:"name"`
	Lat                float64 `db:"lat"`
	Lon                float64 `db:"lon"`
	Category           string  `db:"category"`
	WeatherSuitability string  `db:"weather_suitability"`
	Description        string  `db:"description"`
}

// Return all stored sights ordered by name. Rows that no longer parse are
// skipped with a warning.
func (s *SQLSightRepository) ListSights(ctx context.Context) (_ []domain.Sight, err error) {
	defer obs.Time(ctx, "sights.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql sight repository: DB is nil")
	}

	query := `
	SELECT
		name,
		lat,
		lon,
		category,
		weather_suitability,
		description
	FROM sights
	ORDER BY name;
	`
	var rows []sightRow
	if err := s.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list sights: query sights table: %w", err)
	}

	records := make([]SightRecord, 0, len(rows))
	for _, r := range rows {
		lat, lon := r.Lat, r.Lon
		records = append(records, SightRecord{
			Name:               r.Name,
			Lat:                &lat,
			Lon:                &lon,
			Category:           r.Category,
			WeatherSuitability: splitTags(r.WeatherSuitability),
			Description:        r.Description,
		})
	}
	return SightsFromRecords(records), nil
}

// Insert or replace sights by name in one transaction.
func (s *SQLSightRepository) UpsertSights(ctx context.Context, sights []domain.Sight) (err error) {
	defer obs.Time(ctx, "sights.repo.Upsert")(&err)

	if s.DB == nil {
		return errors.New("sql sight repository: DB is nil")
	}
	if len(sights) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert sights: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
	INSERT INTO sights (name, lat, lon, category, weather_suitability, description)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE
	SET lat = excluded.lat,
		lon = excluded.lon,
		category = excluded.category,
		weather_suitability = excluded.weather_suitability,
		description = excluded.description;
	`))
	if err != nil {
		return fmt.Errorf("upsert sights: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sight := range sights {
		if strings.TrimSpace(sight.Name) == "" {
			return errors.New("upsert sights: empty sight name")
		}
		tags := make([]string, 0, len(sight.WeatherSuitability))
		for _, w := range sight.WeatherSuitability {
			tags = append(tags, w.String())
		}

		if _, err := stmt.ExecContext(ctx,
			sight.Name, sight.Location.Lat, sight.Location.Lon,
			sight.Category, strings.Join(tags, "|"), sight.Description,
		); err != nil {
			return fmt.Errorf("upsert sights: insert name=%q: %w", sight.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert sights: commit tx: %w", err)
	}

	return nil
}
