package inventory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/agrovista/internal/domain/models"
	"github.com/agrovista/agrovista/internal/repository/localstore"
)

// fakeStore is an in-memory stand-in for the SQLite-backed store, keeping the
// same JSON string contract.
type fakeStore struct {
	values map[string]string
	subs   []func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (f *fakeStore) Load(_ context.Context, key string, dest any) error {
	value, ok := f.values[key]
	if !ok {
		return localstore.ErrNoData
	}
	return json.Unmarshal([]byte(value), dest)
}

func (f *fakeStore) Save(_ context.Context, key string, collection any) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	f.values[key] = string(payload)
	return nil
}

func (f *fakeStore) Subscribe(fn func()) {
	f.subs = append(f.subs, fn)
}

func seedItems() []models.InventoryItem {
	cost := 1250000.0
	return []models.InventoryItem{
		{
			ID:          "item-100",
			Name:        "Urea",
			Category:    models.CategoryFertilizers,
			Quantity:    10,
			Unit:        "kg",
			MinStock:    5,
			LastUpdated: "2026-08-18",
			Supplier:    "AgroSur",
			Cost:        &cost,
		},
		{
			ID:          "item-200",
			Name:        "Semillas de Papa",
			Category:    models.CategorySeeds,
			Quantity:    120,
			Unit:        "kg",
			MinStock:    50,
			LastUpdated: "2026-08-20",
			Supplier:    "Semillas del Valle",
		},
	}
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()

	svc, err := NewService(context.Background(), store, seedItems(), nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSearchMatchesAnyField(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	tests := []struct {
		term string
		want []string
	}{
		{"urea", []string{"item-100"}},
		{"agro", []string{"item-100"}},
		{"10", []string{"item-100"}},                         // quantity
		{"fertilizers", []string{"item-100"}},                // category key
		{"fertilizantes", []string{"item-100"}},              // localized label
		{"semillas", []string{"item-200"}},                   // label and supplier
		{"kg", []string{"item-100", "item-200"}},             // unit
		{"", []string{"item-100", "item-200"}},               // empty term returns all
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got []string
			for _, item := range svc.Search(tt.term) {
				got = append(got, item.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchDoesNotMutateCollection(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	before := svc.List()
	svc.Search("urea")
	assert.Equal(t, before, svc.List())
}

func TestSaveOnCreateStampsLastUpdated(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	before := svc.List()

	svc.OpenCreate()
	for field, raw := range map[string]string{
		"name":     "Fungicida Cúprico",
		"category": "pesticides",
		"quantity": "8",
		"unit":     "L",
		"minStock": "5",
		"supplier": "Campo Limpio",
		"cost":     "420000",
	} {
		require.NoError(t, svc.SetField(field, raw))
	}

	item, err := svc.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", item.LastUpdated)

	after := svc.List()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, item, after[len(after)-1])
}

func TestSaveOnEditPreservesIDAndStampsDate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	_, err := svc.OpenEdit("item-100")
	require.NoError(t, err)
	require.NoError(t, svc.SetField("quantity", "25"))

	item, err := svc.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "item-100", item.ID)
	assert.Equal(t, 25.0, item.Quantity)
	assert.Equal(t, "2026-09-01", item.LastUpdated)

	after := svc.List()
	require.Len(t, after, 2)
	assert.Equal(t, item, after[0])
	assert.Equal(t, seedItems()[1], after[1])
}

func TestSaveWithMissingRequiredFieldKeepsFormOpen(t *testing.T) {
	required := []string{"name", "unit", "quantity", "minStock"}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(t, store)
			before := len(svc.List())

			svc.OpenCreate()
			for field, raw := range map[string]string{
				"name":     "Azadones",
				"unit":     "unidades",
				"quantity": "6",
				"minStock": "4",
			} {
				if field == missing {
					continue
				}
				require.NoError(t, svc.SetField(field, raw))
			}

			_, err := svc.Save(context.Background())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, missing)
			assert.Len(t, svc.List(), before)
			assert.True(t, svc.Form().Open)
		})
	}
}

func TestExplicitZeroQuantityIsAccepted(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	svc.OpenCreate()
	for field, raw := range map[string]string{
		"name":     "Papa Cosechada",
		"category": "harvest",
		"quantity": "0",
		"unit":     "kg",
		"minStock": "0",
	} {
		require.NoError(t, svc.SetField(field, raw))
	}

	item, err := svc.Save(context.Background())
	require.NoError(t, err)
	assert.Zero(t, item.Quantity)
	assert.Zero(t, item.MinStock)
}

func TestSetFieldRejectsMalformedInput(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	svc.OpenCreate()

	assert.Error(t, svc.SetField("quantity", "diez"))
	assert.Error(t, svc.SetField("category", "machinery"))
	assert.ErrorIs(t, svc.SetField("price", "10"), ErrUnknownField)
}

func TestSetFieldsRejectedBatchLeavesDraftUntouched(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	svc.OpenCreate()
	require.NoError(t, svc.SetField("name", "Cal Agrícola"))

	err := svc.SetFields(map[string]string{
		"unit":     "kg",
		"quantity": "diez",
	})
	require.Error(t, err)

	draft := svc.Form().Draft
	assert.Equal(t, "Cal Agrícola", draft.Name)
	assert.Empty(t, draft.Unit)
	assert.Nil(t, draft.Quantity)
}

func TestOpenEditUnknownIDFailsClosed(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	_, err := svc.OpenEdit("item-999")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, svc.Form().Open)
}

func TestMutationsAreWrittenThrough(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	_, err := svc.OpenEdit("item-200")
	require.NoError(t, err)
	require.NoError(t, svc.SetField("minStock", "60"))
	_, err = svc.Save(context.Background())
	require.NoError(t, err)

	var persisted []models.InventoryItem
	require.NoError(t, json.Unmarshal([]byte(store.values[localstore.KeyInventory]), &persisted))
	assert.Equal(t, svc.List(), persisted)
}

func TestExternalChangeReloadsCollection(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	replaced := []models.InventoryItem{{ID: "item-900", Name: "Cal Agrícola", Category: models.CategoryFertilizers, Quantity: 20, Unit: "kg", MinStock: 5}}
	payload, err := json.Marshal(replaced)
	require.NoError(t, err)
	store.values[localstore.KeyInventory] = string(payload)

	for _, fn := range store.subs {
		fn()
	}

	assert.Equal(t, replaced, svc.List())
}
