package service

import (
	"testing"

	"github.com/CodeTanzania/emis-feature/internal/apperror"
	"github.com/CodeTanzania/emis-feature/internal/config"
	"github.com/CodeTanzania/emis-feature/internal/entity"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatureConfig() config.FeatureConfig {
	return config.FeatureConfig{
		ModelName:        "Feature",
		CollectionName:   "features",
		Natures:          []string{"Boundary", "Waterway", config.DefaultTier},
		Families:         []string{"Administrative", "River", config.DefaultTier},
		Types:            []string{config.DefaultTier},
		DefaultNature:    config.DefaultTier,
		DefaultFamily:    config.DefaultTier,
		DefaultType:      config.DefaultTier,
		DefaultContinent: "Africa",
		DefaultCountry:   "Tanzania",
		TaggingEnabled:   true,
		TaggingLanguage:  "english",
	}
}

func pointGeometry() *geojson.Geometry {
	return geojson.NewGeometry(orb.Point{39.2, -6.8})
}

func TestNormalizeAppliesTierDefaults(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	f := &entity.Feature{Name: "Msimbazi", Geometry: pointGeometry()}
	require.NoError(t, n.Normalize(f))

	assert.Equal(t, config.DefaultTier, f.Nature)
	assert.Equal(t, config.DefaultTier, f.Family)
	assert.Equal(t, config.DefaultTier, f.Type)
}

func TestNormalizeRejectsUnknownEnumValues(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	tests := []struct {
		name    string
		feature *entity.Feature
		field   string
	}{
		{
			name:    "unknown nature",
			feature: &entity.Feature{Nature: "Volcano", Name: "X", Geometry: pointGeometry()},
			field:   "nature",
		},
		{
			name:    "unknown family",
			feature: &entity.Feature{Family: "Lagoon", Name: "X", Geometry: pointGeometry()},
			field:   "family",
		},
		{
			name:    "unknown type",
			feature: &entity.Feature{Type: "Dirt", Name: "X", Geometry: pointGeometry()},
			field:   "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := n.Normalize(tt.feature)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)

			var invalid *apperror.InvalidEnumValueError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestNormalizeAppliesPlaceDefaults(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	f := &entity.Feature{Name: "Msimbazi", Geometry: pointGeometry()}
	require.NoError(t, n.Normalize(f))

	assert.Equal(t, "Africa", f.Place["continent"])
	assert.Equal(t, "Tanzania", f.Place["country"])
}

func TestNormalizeKeepsSuppliedPlace(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	f := &entity.Feature{
		Name:     "Nile",
		Geometry: pointGeometry(),
		Place:    map[string]string{"country": "Egypt", "region": "Cairo"},
	}
	require.NoError(t, n.Normalize(f))

	assert.Equal(t, "Egypt", f.Place["country"])
	assert.Equal(t, "Cairo", f.Place["region"])
	assert.Equal(t, "Africa", f.Place["continent"])
}

func TestNormalizeDerivesCentroid(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	f := &entity.Feature{
		Name: "Block",
		Geometry: geojson.NewGeometry(orb.Polygon{
			{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}},
		}),
	}
	require.NoError(t, n.Normalize(f))

	require.NotNil(t, f.Centroid)
	point, ok := f.Centroid.Geometry().(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 1.0, point.Lon(), 1e-9)
	assert.InDelta(t, 1.0, point.Lat(), 1e-9)
}

func TestNormalizeDerivesTags(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	f := &entity.Feature{
		Nature:   "Waterway",
		Family:   "River",
		Name:     "Msimbazi",
		Geometry: pointGeometry(),
	}
	require.NoError(t, n.Normalize(f))

	assert.True(t, f.HasTag("waterway"))
	assert.True(t, f.HasTag("river"))
	assert.True(t, f.HasTag("msimbazi"))
	assert.True(t, f.HasTag("tanzania"))
}

func TestNormalizeKeepsSuppliedTags(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	f := &entity.Feature{
		Name:     "Msimbazi",
		Geometry: pointGeometry(),
		Tags:     []string{"Flood-Prone", "msimbazi"},
	}
	require.NoError(t, n.Normalize(f))

	assert.True(t, f.HasTag("flood-prone"))
	// Supplied and derived duplicates collapse.
	count := 0
	for _, tag := range f.Tags {
		if tag == "msimbazi" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNormalizeTaggingDisabled(t *testing.T) {
	cfg := testFeatureConfig()
	cfg.TaggingEnabled = false
	n := NewFeatureNormalizer(cfg)

	f := &entity.Feature{
		Nature:   "Waterway",
		Family:   "River",
		Name:     "Msimbazi",
		Geometry: pointGeometry(),
		Tags:     []string{"Manual", "manual"},
	}
	require.NoError(t, n.Normalize(f))

	// No derivation, but supplied tags still normalize and de-duplicate.
	assert.Equal(t, []string{"manual"}, f.Tags)
}

func TestNormalizeRequiredFields(t *testing.T) {
	n := NewFeatureNormalizer(testFeatureConfig())

	tests := []struct {
		name    string
		feature *entity.Feature
		field   string
	}{
		{
			name:    "missing name",
			feature: &entity.Feature{Geometry: pointGeometry()},
			field:   "name",
		},
		{
			name:    "missing geometry",
			feature: &entity.Feature{Name: "Msimbazi"},
			field:   "geometry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := n.Normalize(tt.feature)
			require.Error(t, err)

			var missing *apperror.MissingRequiredFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}
