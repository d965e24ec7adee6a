package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeTanzania/emis-feature/internal/apperror"
	"github.com/CodeTanzania/emis-feature/internal/dto"
	"github.com/CodeTanzania/emis-feature/internal/repository/memory"
	"github.com/CodeTanzania/emis-feature/pkg/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeedService(t *testing.T, seedsPath string) (ISeedService, IFeatureService) {
	t.Helper()
	factory := memory.NewFactory()
	normalizer := NewFeatureNormalizer(testFeatureConfig())
	features := NewFeatureService(factory, normalizer, lock.NewKeyedMutex(), nil, nil)
	return NewSeedService(features, seedsPath, nil), features
}

func writeSeedFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "features.json"), []byte(content), 0o644))
}

const seedFileJSON = `[
	{
		"nature": "Waterway",
		"family": "River",
		"name": "Msimbazi",
		"geometry": {"type": "Point", "coordinates": [39.2, -6.8]}
	},
	{
		"nature": "Boundary",
		"family": "Administrative",
		"name": "Ilala",
		"geometry": {"type": "Point", "coordinates": [39.27, -6.82]}
	}
]`

func TestSeedFromFile(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, seedFileJSON)
	seeder, features := newTestSeedService(t, dir)
	ctx := context.Background()

	seeded, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, 2)

	res, err := features.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, seedFileJSON)
	seeder, features := newTestSeedService(t, dir)
	ctx := context.Background()

	_, err := seeder.Seed(ctx)
	require.NoError(t, err)
	_, err = seeder.Seed(ctx)
	require.NoError(t, err)

	res, err := features.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
}

func TestSeedMergesExistingRecord(t *testing.T) {
	seeder, features := newTestSeedService(t, t.TempDir())
	ctx := context.Background()

	_, err := seeder.Seed(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Geometry: pointGeometry(),
		About:    strPtr("Original"),
	})
	require.NoError(t, err)

	seeded, err := seeder.Seed(ctx, &dto.FeatureCandidate{
		Nature: strPtr("Waterway"),
		Family: strPtr("River"),
		Name:   strPtr("Msimbazi"),
		About:  strPtr("Updated"),
	})
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	assert.Equal(t, "Updated", seeded[0].About)

	res, err := features.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestSeedWithoutFileUsesProvidedCandidates(t *testing.T) {
	seeder, features := newTestSeedService(t, t.TempDir())
	ctx := context.Background()

	seeded, err := seeder.Seed(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Ruvu"),
		Geometry: pointGeometry(),
	})
	require.NoError(t, err)
	assert.Len(t, seeded, 1)

	res, err := features.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestSeedNothingToDo(t *testing.T) {
	seeder, _ := newTestSeedService(t, t.TempDir())

	seeded, err := seeder.Seed(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, seeded)
}

func TestSeedMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, `{"not": "an array"}`)
	seeder, _ := newTestSeedService(t, dir)

	_, err := seeder.Seed(context.Background())
	assert.Error(t, err)
}

func TestSeedBadCandidateDoesNotBlockOthers(t *testing.T) {
	seeder, features := newTestSeedService(t, t.TempDir())
	ctx := context.Background()

	seeded, err := seeder.Seed(ctx,
		&dto.FeatureCandidate{
			Nature:   strPtr("Waterway"),
			Family:   strPtr("River"),
			Name:     strPtr("Msimbazi"),
			Geometry: pointGeometry(),
		},
		&dto.FeatureCandidate{
			Nature: strPtr("Volcano"), // not in the configured enumeration
			Name:   strPtr("Broken"),
		},
		&dto.FeatureCandidate{
			Nature:   strPtr("Boundary"),
			Family:   strPtr("Administrative"),
			Name:     strPtr("Ilala"),
			Geometry: pointGeometry(),
		},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// The failing candidate is reported, the rest still land.
	assert.Len(t, seeded, 2)
	res, listErr := features.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, listErr)
	assert.Equal(t, int64(2), res.Total)
}

func TestSeedDeduplicatesIdenticalCandidates(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, seedFileJSON)
	seeder, features := newTestSeedService(t, dir)
	ctx := context.Background()

	// Same structural candidate as the file entry.
	_, err := seeder.Seed(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Geometry: pointGeometry(),
	})
	require.NoError(t, err)

	res, listErr := features.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, listErr)
	assert.Equal(t, int64(2), res.Total)
}
