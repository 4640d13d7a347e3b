package service

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/guttosm/basket-service/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// ScoringTables holds the read-only lookup tables used by the scorer and the
// substitute finder. Engines keep their own copy; callers never share one.
type ScoringTables struct {
	EmissionFactors          map[model.Category]float64
	DefaultEmissionFactor    float64
	TransportDistances       map[model.Origin]float64
	DefaultTransportDistance float64
	Countries                map[string]model.Origin
	HomeCountry              string
	RelatedCategories        map[model.Category][]model.Category
}

// DefaultScoringTables returns the built-in tables (kg CO2 per kg, km).
func DefaultScoringTables() ScoringTables {
	return ScoringTables{
		EmissionFactors: map[model.Category]float64{
			model.CategoryMeat:       27.0,
			model.CategoryDairy:      13.5,
			model.CategoryFish:       6.0,
			model.CategoryVegetables: 2.0,
			model.CategoryFruits:     1.1,
			model.CategoryGrains:     2.5,
			model.CategoryLegumes:    0.9,
			model.CategoryBeverages:  1.5,
			model.CategorySnacks:     3.0,
		},
		DefaultEmissionFactor: 3.5,
		TransportDistances: map[model.Origin]float64{
			model.OriginLocal:            50,
			model.OriginNational:         500,
			model.OriginRegional:         2000,
			model.OriginContinental:      5000,
			model.OriginIntercontinental: 10000,
			model.OriginOverseas:         12000,
		},
		DefaultTransportDistance: 8000,
		Countries: map[string]model.Origin{
			"argentina":      model.OriginRegional,
			"bolivia":        model.OriginRegional,
			"brazil":         model.OriginRegional,
			"peru":           model.OriginRegional,
			"colombia":       model.OriginRegional,
			"ecuador":        model.OriginRegional,
			"paraguay":       model.OriginRegional,
			"uruguay":        model.OriginRegional,
			"canada":         model.OriginContinental,
			"mexico":         model.OriginContinental,
			"united states":  model.OriginContinental,
			"usa":            model.OriginContinental,
			"france":         model.OriginIntercontinental,
			"germany":        model.OriginIntercontinental,
			"italy":          model.OriginIntercontinental,
			"netherlands":    model.OriginIntercontinental,
			"portugal":       model.OriginIntercontinental,
			"spain":          model.OriginIntercontinental,
			"united kingdom": model.OriginIntercontinental,
			"australia":      model.OriginOverseas,
			"china":          model.OriginOverseas,
			"india":          model.OriginOverseas,
			"japan":          model.OriginOverseas,
			"new zealand":    model.OriginOverseas,
			"thailand":       model.OriginOverseas,
			"vietnam":        model.OriginOverseas,
		},
		HomeCountry: "chile",
		RelatedCategories: map[model.Category][]model.Category{
			model.CategoryMeat:       {model.CategoryPoultry, model.CategoryFish},
			model.CategoryDairy:      {model.CategoryCheese, model.CategoryYogurt, model.CategoryMilk},
			model.CategoryVegetables: {model.CategoryFruits, model.CategoryLegumes},
			model.CategorySnacks:     {model.CategorySweets, model.CategoryCookies},
		},
	}
}

// EmissionFactor returns kg CO2 per kg for the category.
func (t ScoringTables) EmissionFactor(c model.Category) float64 {
	if f, ok := t.EmissionFactors[c]; ok {
		return f
	}
	return t.DefaultEmissionFactor
}

// TransportDistance returns the assumed travel distance in km for the origin.
func (t ScoringTables) TransportDistance(o model.Origin) float64 {
	if d, ok := t.TransportDistances[o]; ok {
		return d
	}
	return t.DefaultTransportDistance
}

// ClassifyOrigin maps a country name onto an origin classification.
func (t ScoringTables) ClassifyOrigin(country string) model.Origin {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "" {
		return model.OriginUnknown
	}
	if c == strings.ToLower(t.HomeCountry) {
		return model.OriginLocal
	}
	if o, ok := t.Countries[c]; ok {
		return o
	}
	return model.OriginUnknown
}

// OriginOf returns the product's origin, classifying its country when unset.
func (t ScoringTables) OriginOf(p model.Product) model.Origin {
	if p.Origin != "" {
		return p.Origin
	}
	return t.ClassifyOrigin(p.OriginCountry)
}

// Related reports whether two categories appear together in the related table.
func (t ScoringTables) Related(a, b model.Category) bool {
	for _, c := range t.RelatedCategories[a] {
		if c == b {
			return true
		}
	}
	for _, c := range t.RelatedCategories[b] {
		if c == a {
			return true
		}
	}
	return false
}

// fingerprint hashes every table entry that can change a score.
func (t ScoringTables) fingerprint() string {
	h := fnv.New64a()

	categories := make([]string, 0, len(t.EmissionFactors))
	for c := range t.EmissionFactors {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(h, "e:%s=%g;", c, t.EmissionFactors[model.Category(c)])
	}
	fmt.Fprintf(h, "e*=%g;", t.DefaultEmissionFactor)

	origins := make([]string, 0, len(t.TransportDistances))
	for o := range t.TransportDistances {
		origins = append(origins, string(o))
	}
	sort.Strings(origins)
	for _, o := range origins {
		fmt.Fprintf(h, "t:%s=%g;", o, t.TransportDistances[model.Origin(o)])
	}
	fmt.Fprintf(h, "t*=%g;", t.DefaultTransportDistance)

	countries := make([]string, 0, len(t.Countries))
	for c := range t.Countries {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	for _, c := range countries {
		fmt.Fprintf(h, "c:%s=%s;", c, t.Countries[c])
	}
	fmt.Fprintf(h, "home=%s", t.HomeCountry)

	return fmt.Sprintf("%016x", h.Sum64())
}

// clone returns a deep copy so engines never alias caller maps.
func (t ScoringTables) clone() ScoringTables {
	out := t
	out.EmissionFactors = make(map[model.Category]float64, len(t.EmissionFactors))
	for k, v := range t.EmissionFactors {
		out.EmissionFactors[k] = v
	}
	out.TransportDistances = make(map[model.Origin]float64, len(t.TransportDistances))
	for k, v := range t.TransportDistances {
		out.TransportDistances[k] = v
	}
	out.Countries = make(map[string]model.Origin, len(t.Countries))
	for k, v := range t.Countries {
		out.Countries[k] = v
	}
	out.RelatedCategories = make(map[model.Category][]model.Category, len(t.RelatedCategories))
	for k, v := range t.RelatedCategories {
		out.RelatedCategories[k] = append([]model.Category(nil), v...)
	}
	return out
}

// scoringTablesFile is the YAML layout accepted by LoadScoringTables.
type scoringTablesFile struct {
	EmissionFactors          map[string]float64  `yaml:"emission_factors"`
	DefaultEmissionFactor    *float64            `yaml:"default_emission_factor"`
	TransportDistances       map[string]float64  `yaml:"transport_distances_km"`
	DefaultTransportDistance *float64            `yaml:"default_transport_distance_km"`
	Countries                map[string]string   `yaml:"countries"`
	HomeCountry              string              `yaml:"home_country"`
	RelatedCategories        map[string][]string `yaml:"related_categories"`
}

// LoadScoringTables reads YAML overrides on top of DefaultScoringTables.
// Keys present in the document replace the defaults; absent keys are kept.
func LoadScoringTables(r io.Reader) (ScoringTables, error) {
	tables := DefaultScoringTables()

	var file scoringTablesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return ScoringTables{}, fmt.Errorf("decode scoring tables: %w", err)
	}

	for k, v := range file.EmissionFactors {
		if v < 0 {
			return ScoringTables{}, model.NewValidationError("emission_factors."+k, "must not be negative")
		}
		tables.EmissionFactors[model.Category(strings.ToLower(k))] = v
	}
	if file.DefaultEmissionFactor != nil {
		if *file.DefaultEmissionFactor < 0 {
			return ScoringTables{}, model.NewValidationError("default_emission_factor", "must not be negative")
		}
		tables.DefaultEmissionFactor = *file.DefaultEmissionFactor
	}
	for k, v := range file.TransportDistances {
		if v < 0 {
			return ScoringTables{}, model.NewValidationError("transport_distances_km."+k, "must not be negative")
		}
		tables.TransportDistances[model.Origin(strings.ToLower(k))] = v
	}
	if file.DefaultTransportDistance != nil {
		if *file.DefaultTransportDistance < 0 {
			return ScoringTables{}, model.NewValidationError("default_transport_distance_km", "must not be negative")
		}
		tables.DefaultTransportDistance = *file.DefaultTransportDistance
	}
	for k, v := range file.Countries {
		tables.Countries[strings.ToLower(strings.TrimSpace(k))] = model.Origin(strings.ToLower(v))
	}
	if file.HomeCountry != "" {
		tables.HomeCountry = strings.ToLower(strings.TrimSpace(file.HomeCountry))
	}
	for k, v := range file.RelatedCategories {
		related := make([]model.Category, 0, len(v))
		for _, c := range v {
			related = append(related, model.Category(strings.ToLower(c)))
		}
		tables.RelatedCategories[model.Category(strings.ToLower(k))] = related
	}

	return tables, nil
}

// LoadScoringTablesFile opens path and calls LoadScoringTables.
func LoadScoringTablesFile(path string) (ScoringTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScoringTables{}, fmt.Errorf("open scoring tables: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadScoringTables(f)
}

// RelatedTo lists the categories related to c in either direction, without c itself.
func (t ScoringTables) RelatedTo(c model.Category) []model.Category {
	seen := map[model.Category]bool{c: true}
	var out []model.Category
	for _, r := range t.RelatedCategories[c] {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for from, related := range t.RelatedCategories {
		if seen[from] {
			continue
		}
		for _, r := range related {
			if r == c {
				seen[from] = true
				out = append(out, from)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
