package service

import (
	"context"
	"sync"
	"testing"

	"github.com/CodeTanzania/emis-feature/internal/apperror"
	"github.com/CodeTanzania/emis-feature/internal/dto"
	"github.com/CodeTanzania/emis-feature/internal/repository/memory"
	"github.com/CodeTanzania/emis-feature/pkg/lock"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeatureService(t *testing.T) (IFeatureService, *memory.Factory) {
	t.Helper()
	factory := memory.NewFactory()
	normalizer := NewFeatureNormalizer(testFeatureConfig())
	svc := NewFeatureService(factory, normalizer, lock.NewKeyedMutex(), nil, nil)
	return svc, factory
}

func strPtr(s string) *string { return &s }

func createRequest(name string) *dto.CreateFeatureRequest {
	return &dto.CreateFeatureRequest{
		Nature:   "Waterway",
		Family:   "River",
		Name:     name,
		Geometry: pointGeometry(),
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Msimbazi"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.Id)
	assert.Equal(t, "Msimbazi", created.Name)
	assert.Equal(t, "Waterway", created.Nature)
	assert.NotNil(t, created.Centroid)
	assert.True(t, len(created.Tags) > 0)

	got, err := svc.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, got.Id)
	assert.Equal(t, "Tanzania", got.Place["country"])
}

func TestGetUnknownIdFails(t *testing.T) {
	svc, _ := newTestFeatureService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateInvalidEnumFails(t *testing.T) {
	svc, _ := newTestFeatureService(t)

	req := createRequest("Msimbazi")
	req.Nature = "Volcano"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListPaginationAndFilters(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	names := []string{"Msimbazi", "Ruvu", "Kigamboni", "Pugu", "Mbezi"}
	for _, name := range names {
		_, err := svc.Create(ctx, createRequest(name))
		require.NoError(t, err)
	}
	boundary := createRequest("Ilala")
	boundary.Nature = "Boundary"
	boundary.Family = "Administrative"
	_, err := svc.Create(ctx, boundary)
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		res, err := svc.List(ctx, &dto.ListFeaturesQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(6), res.Total)
		assert.Equal(t, 6, res.Size)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 10, res.Limit)
		assert.Equal(t, 1, res.Pages)
		assert.NotNil(t, res.LastModified)
	})

	t.Run("second page", func(t *testing.T) {
		res, err := svc.List(ctx, &dto.ListFeaturesQuery{Page: 2, Limit: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(6), res.Total)
		assert.Equal(t, 2, res.Size)
		assert.Equal(t, 4, res.Skip)
		assert.Equal(t, 2, res.Pages)
	})

	t.Run("filter by nature", func(t *testing.T) {
		res, err := svc.List(ctx, &dto.ListFeaturesQuery{Nature: "Boundary"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		assert.Equal(t, "Ilala", res.Data[0].Name)
	})

	t.Run("filter by name fragment", func(t *testing.T) {
		res, err := svc.List(ctx, &dto.ListFeaturesQuery{Name: "msimb"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		assert.Equal(t, "Msimbazi", res.Data[0].Name)
	})

	t.Run("empty page", func(t *testing.T) {
		res, err := svc.List(ctx, &dto.ListFeaturesQuery{Page: 9})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Size)
		assert.Equal(t, int64(6), res.Total)
	})
}

func TestPatchMergesSuppliedFields(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Msimbazi"))
	require.NoError(t, err)

	patched, err := svc.Patch(ctx, created.Id, &dto.PatchFeatureRequest{
		Nickname: strPtr("Bonde"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bonde", patched.Nickname)
	assert.Equal(t, "Msimbazi", patched.Name)
	assert.Equal(t, "Waterway", patched.Nature)
	assert.NotNil(t, patched.UpdatedAt)
}

func TestReplaceKeepsIdentityAndCreatedAt(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Msimbazi"))
	require.NoError(t, err)

	replaced, err := svc.Replace(ctx, created.Id, &dto.ReplaceFeatureRequest{
		Nature:   "Boundary",
		Family:   "Administrative",
		Name:     "Ilala",
		Geometry: pointGeometry(),
	})
	require.NoError(t, err)

	assert.Equal(t, created.Id, replaced.Id)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)
	assert.Equal(t, "Ilala", replaced.Name)
	assert.Equal(t, "Boundary", replaced.Nature)
	// Wholesale replace drops the old nickname.
	assert.Empty(t, replaced.Nickname)
}

func TestDeleteIsSoft(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Msimbazi"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)

	_, err = svc.Get(ctx, created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	res, err := svc.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
}

func TestDeleteUnknownIdFails(t *testing.T) {
	svc, _ := newTestFeatureService(t)

	_, err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpsertCreatesWhenAbsent(t *testing.T) {
	svc, _ := newTestFeatureService(t)

	res, err := svc.Upsert(context.Background(), &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Geometry: pointGeometry(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Equal(t, "Msimbazi", res.Name)
}

func TestUpsertMergesByNaturalKey(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Geometry: pointGeometry(),
		About:    strPtr("Original description"),
	})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Nickname: strPtr("Bonde"),
	})
	require.NoError(t, err)

	// Same record, candidate fields win, omitted fields survive.
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Bonde", second.Nickname)
	assert.Equal(t, "Original description", second.About)

	res, err := svc.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestUpsertByIdMergesOntoExisting(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Msimbazi"))
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Id:    &created.Id,
		About: strPtr("new text"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.Id, res.Id)
	assert.Equal(t, created.CreatedAt, res.CreatedAt)
	assert.Equal(t, "Msimbazi", res.Name)
	assert.Equal(t, "new text", res.About)
	assert.NotNil(t, res.UpdatedAt)
}

func TestUpsertDefaultsOmittedTiers(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Name:     strPtr("Mbezi"),
		Geometry: pointGeometry(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", first.Nature)

	// The same candidate reconciles to the same record.
	second, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Name: strPtr("Mbezi"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
}

func TestUpsertWithoutNameFails(t *testing.T) {
	svc, _ := newTestFeatureService(t)

	_, err := svc.Upsert(context.Background(), &dto.FeatureCandidate{
		Nature: strPtr("Waterway"),
	})
	require.Error(t, err)

	var missing *apperror.MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "name", missing.Field)
}

func TestUpsertRevivesSoftDeleted(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Msimbazi"))
	require.NoError(t, err)
	_, err = svc.Delete(ctx, created.Id)
	require.NoError(t, err)

	revived, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Nature: strPtr("Waterway"),
		Family: strPtr("River"),
		Name:   strPtr("Msimbazi"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.Id, revived.Id)
	assert.Nil(t, revived.DeletedAt)

	got, err := svc.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Msimbazi", got.Name)
}

func TestUpsertConcurrentSameKeyYieldsOneRecord(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Upsert(ctx, &dto.FeatureCandidate{
				Nature:   strPtr("Waterway"),
				Family:   strPtr("River"),
				Name:     strPtr("Msimbazi"),
				Geometry: pointGeometry(),
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, &dto.ListFeaturesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestUpsertGeometryReplacedNotMerged(t *testing.T) {
	svc, _ := newTestFeatureService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Geometry: pointGeometry(),
	})
	require.NoError(t, err)

	updated, err := svc.Upsert(ctx, &dto.FeatureCandidate{
		Nature:   strPtr("Waterway"),
		Family:   strPtr("River"),
		Name:     strPtr("Msimbazi"),
		Geometry: geojson.NewGeometry(orb.Point{40.0, -7.0}),
	})
	require.NoError(t, err)

	point, ok := updated.Geometry.Geometry().(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 40.0, point.Lon(), 1e-9)
	assert.InDelta(t, -7.0, point.Lat(), 1e-9)
}
