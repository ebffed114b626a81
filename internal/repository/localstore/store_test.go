package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/agrovista/internal/domain/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "agrovista.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestLoadMissingKeyReturnsErrNoData(t *testing.T) {
	store := newTestStore(t)

	var crops []models.Crop
	err := store.Load(context.Background(), KeyCrops, &crops)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	yield := 1000.0
	want := []models.Crop{
		{
			ID:                  "crop-1",
			Name:                "Papa Criolla",
			Variety:             "Parda Pastusa",
			PlantingDate:        "2026-03-15",
			ExpectedHarvestDate: "2026-09-10",
			Area:                2,
			Status:              models.CropGrowing,
			HealthStatus:        models.HealthGood,
			YieldEstimate:       &yield,
		},
		{
			ID:                  "crop-2",
			Name:                "Maíz",
			Variety:             "Amarillo Duro",
			PlantingDate:        "2026-04-01",
			ExpectedHarvestDate: "2026-09-20",
			Area:                3,
			Status:              models.CropPlanted,
			HealthStatus:        models.HealthFair,
		},
	}

	require.NoError(t, store.Save(ctx, KeyCrops, want))

	var got []models.Crop
	require.NoError(t, store.Load(ctx, KeyCrops, &got))
	assert.Equal(t, want, got)
}

func TestLoadIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items := []models.InventoryItem{
		{ID: "item-1", Name: "Urea", Category: models.CategoryFertilizers, Quantity: 10, Unit: "kg", MinStock: 5, LastUpdated: "2026-08-20"},
	}
	require.NoError(t, store.Save(ctx, KeyInventory, items))

	var first, second []models.InventoryItem
	require.NoError(t, store.Load(ctx, KeyInventory, &first))
	require.NoError(t, store.Load(ctx, KeyInventory, &second))
	assert.Equal(t, first, second)
}

func TestSaveOverwritesPriorValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, KeyCrops, []models.Crop{{ID: "crop-1", Name: "Tomate"}}))
	require.NoError(t, store.Save(ctx, KeyCrops, []models.Crop{{ID: "crop-2", Name: "Frijol"}}))

	var got []models.Crop
	require.NoError(t, store.Load(ctx, KeyCrops, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "crop-2", got[0].ID)
}

func TestLoadCorruptValueTreatedAsAbsent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO state (key, value) VALUES (?, ?)`, KeyCrops, "{not json")
	require.NoError(t, err)

	var crops []models.Crop
	err = store.Load(ctx, KeyCrops, &crops)
	assert.ErrorIs(t, err, ErrNoData)
}
