package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringTables_Lookups(t *testing.T) {
	tables := DefaultScoringTables()

	assert.Equal(t, 27.0, tables.EmissionFactor(model.CategoryMeat))
	assert.Equal(t, tables.DefaultEmissionFactor, tables.EmissionFactor(model.CategoryCookies))
	assert.Equal(t, 50.0, tables.TransportDistance(model.OriginLocal))
	assert.Equal(t, tables.DefaultTransportDistance, tables.TransportDistance(model.OriginUnknown))
}

func TestScoringTables_ClassifyOrigin(t *testing.T) {
	tables := DefaultScoringTables()

	tests := []struct {
		country  string
		expected model.Origin
	}{
		{country: "Chile", expected: model.OriginLocal},
		{country: " argentina ", expected: model.OriginRegional},
		{country: "Mexico", expected: model.OriginContinental},
		{country: "Spain", expected: model.OriginIntercontinental},
		{country: "New Zealand", expected: model.OriginOverseas},
		{country: "Atlantis", expected: model.OriginUnknown},
		{country: "", expected: model.OriginUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.expected, tables.ClassifyOrigin(tt.country))
		})
	}

	assert.Equal(t, model.OriginNational, tables.OriginOf(model.Product{Origin: model.OriginNational, OriginCountry: "Chile"}))
	assert.Equal(t, model.OriginLocal, tables.OriginOf(model.Product{OriginCountry: "chile"}))
}

func TestScoringTables_Related(t *testing.T) {
	tables := DefaultScoringTables()

	assert.True(t, tables.Related(model.CategoryMeat, model.CategoryFish))
	assert.True(t, tables.Related(model.CategoryFish, model.CategoryMeat))
	assert.True(t, tables.Related(model.CategoryYogurt, model.CategoryDairy))
	assert.False(t, tables.Related(model.CategoryMeat, model.CategoryDairy))
	assert.False(t, tables.Related(model.CategoryMeat, model.CategoryMeat))
}

func TestScoringTables_CloneIsIndependent(t *testing.T) {
	original := DefaultScoringTables()
	copied := original.clone()

	copied.EmissionFactors[model.CategoryMeat] = 1
	copied.RelatedCategories[model.CategoryMeat][0] = model.CategoryOther

	assert.Equal(t, 27.0, original.EmissionFactors[model.CategoryMeat])
	assert.Equal(t, model.CategoryPoultry, original.RelatedCategories[model.CategoryMeat][0])
}

func TestScoringTables_Fingerprint(t *testing.T) {
	base := DefaultScoringTables().fingerprint()
	assert.Equal(t, base, DefaultScoringTables().clone().fingerprint())

	tests := []struct {
		name   string
		mutate func(*ScoringTables)
	}{
		{"emission factor", func(tb *ScoringTables) { tb.EmissionFactors[model.CategoryMeat] = 20 }},
		{"default emission factor", func(tb *ScoringTables) { tb.DefaultEmissionFactor = 4 }},
		{"transport distance", func(tb *ScoringTables) { tb.TransportDistances[model.OriginLocal] = 10 }},
		{"default transport distance", func(tb *ScoringTables) { tb.DefaultTransportDistance = 1 }},
		{"country", func(tb *ScoringTables) { tb.Countries["atlantis"] = model.OriginOverseas }},
		{"home country", func(tb *ScoringTables) { tb.HomeCountry = "peru" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultScoringTables()
			tt.mutate(&tables)
			assert.NotEqual(t, base, tables.fingerprint())
		})
	}
}

func TestLoadScoringTables(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		check   func(*testing.T, ScoringTables)
	}{
		{
			name: "empty document keeps defaults",
			doc:  "",
			check: func(t *testing.T, tables ScoringTables) {
				assert.Equal(t, DefaultScoringTables(), tables)
			},
		},
		{
			name: "overrides merge onto defaults",
			doc: `
emission_factors:
  Meat: 30
  cheese: 21
default_transport_distance_km: 9000
countries:
  Brazil: national
home_country: Argentina
related_categories:
  grains: [legumes]
`,
			check: func(t *testing.T, tables ScoringTables) {
				assert.Equal(t, 30.0, tables.EmissionFactor(model.CategoryMeat))
				assert.Equal(t, 21.0, tables.EmissionFactor(model.CategoryCheese))
				assert.Equal(t, 13.5, tables.EmissionFactor(model.CategoryDairy))
				assert.Equal(t, 9000.0, tables.DefaultTransportDistance)
				assert.Equal(t, model.OriginNational, tables.ClassifyOrigin("brazil"))
				assert.Equal(t, model.OriginLocal, tables.ClassifyOrigin("Argentina"))
				assert.True(t, tables.Related(model.CategoryLegumes, model.CategoryGrains))
			},
		},
		{
			name:    "negative factor is rejected",
			doc:     "emission_factors:\n  meat: -1\n",
			wantErr: true,
		},
		{
			name:    "negative distance is rejected",
			doc:     "transport_distances_km:\n  local: -5\n",
			wantErr: true,
		},
		{
			name:    "unknown keys are rejected",
			doc:     "emission_factor:\n  meat: 1\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			doc:     "emission_factors: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := LoadScoringTables(strings.NewReader(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, tables)
		})
	}
}

func TestLoadScoringTables_NegativeIsInvalidInput(t *testing.T) {
	_, err := LoadScoringTables(strings.NewReader("default_emission_factor: -2\n"))
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestLoadScoringTablesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_emission_factor: 4\n"), 0o600))

	tables, err := LoadScoringTablesFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, tables.DefaultEmissionFactor)

	_, err = LoadScoringTablesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
