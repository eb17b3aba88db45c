package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

const (
	defaultSightName     = "Unnamed Sight"
	defaultSightCategory = "unknown"
)

// tagList accepts weather tags as a list or as one "|"-separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("weather_suitability: want list or string: %w", err)
	}
	*t = splitTags(s)
	return nil
}

func (t *tagList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var list []string
		if err := n.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	var s string
	if err := n.Decode(&s); err != nil {
		return fmt.Errorf("weather_suitability: want list or string: %w", err)
	}
	*t = splitTags(s)
	return nil
}

func splitTags(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SightRecord is one sight as stored in a seed file.
type SightRecord struct {
	Name               string   `json:"name" yaml:"name"`
	Lat                *float64 `json:"lat" yaml:"lat"`
	Lon                *float64 `json:"lon" yaml:"lon"`
	Category           string   `json:"category" yaml:"category"`
	WeatherSuitability tagList  `json:"weather_suitability" yaml:"weather_suitability"`
	Description        string   `json:"description" yaml:"description"`
}

// LoadSightsFile reads a JSON or YAML (.yaml, .yml) list of sights.
//
// Records without coordinates, with out-of-range coordinates or with
// unknown weather tags are skipped with a log line. Missing names and
// categories get defaults; missing tags are derived from the category.
// Later duplicates of a name are skipped.
func LoadSightsFile(path string) ([]domain.Sight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load sights: read %q: %w", path, err)
	}

	var records []SightRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("load sights: parse %q: %w", path, err)
	}

	return SightsFromRecords(records), nil
}

// SightsFromRecords converts records to sights, dropping malformed ones.
func SightsFromRecords(records []SightRecord) []domain.Sight {
	out := make([]domain.Sight, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		s, err := r.toSight()
		if err != nil {
			log.Printf("op=sights.load level=warn msg=%q", fmt.Sprintf("skip record #%d: %v", i+1, err))
			continue
		}
		if seen[s.Name] {
			log.Printf("op=sights.load level=warn msg=%q", fmt.Sprintf("skip record #%d: duplicate name %q", i+1, s.Name))
			continue
		}
		seen[s.Name] = true
		out = append(out, s)
	}
	return out
}

func (r SightRecord) toSight() (domain.Sight, error) {
	if r.Lat == nil || r.Lon == nil {
		return domain.Sight{}, fmt.Errorf("%q has no coordinates", r.Name)
	}
	loc := domain.Coordinates{Lat: *r.Lat, Lon: *r.Lon}
	if err := loc.Validate(); err != nil {
		return domain.Sight{}, fmt.Errorf("%q: %w", r.Name, err)
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = defaultSightName
	}
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = defaultSightCategory
	}

	tags, err := parseTags(r.WeatherSuitability)
	if err != nil {
		return domain.Sight{}, fmt.Errorf("%q: %w", name, err)
	}
	if len(tags) == 0 {
		tags = domain.SuitabilityForCategory(category)
	}

	return domain.Sight{
		Name:               name,
		Location:           loc,
		Category:           category,
		WeatherSuitability: tags,
		Description:        strings.TrimSpace(r.Description),
	}, nil
}

func parseTags(raw []string) ([]domain.Weather, error) {
	tags := make([]domain.Weather, 0, len(raw))
	for _, t := range raw {
		w, err := domain.ParseWeather(t)
		if err != nil {
			return nil, err
		}
		tags = append(tags, w)
	}
	return tags, nil
}

// SeedFromFile loads a sight file and upserts it into db.
func SeedFromFile(ctx context.Context, db *sqlx.DB, path string) (int, error) {
	sights, err := LoadSightsFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed sights: %w", err)
	}
	if err := NewSQLSightRepository(db).UpsertSights(ctx, sights); err != nil {
		return 0, fmt.Errorf("seed sights: %w", err)
	}
	return len(sights), nil
}
