package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/agrovista/internal/domain/models"
	"github.com/agrovista/agrovista/internal/repository/localstore"
	"github.com/agrovista/agrovista/internal/seed"
	"github.com/agrovista/agrovista/internal/server/handlers"
	"github.com/agrovista/agrovista/internal/server/router"
	cropssvc "github.com/agrovista/agrovista/internal/service/crops"
	inventorysvc "github.com/agrovista/agrovista/internal/service/inventory"
	monitoringsvc "github.com/agrovista/agrovista/internal/service/monitoring"
	reportingsvc "github.com/agrovista/agrovista/internal/service/reporting"
)

type fakeStore struct {
	values map[string]string
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

func (f *fakeStore) Subscribe(func()) {}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := &fakeStore{values: make(map[string]string)}
	ctx := context.Background()

	cropsSvc, err := cropssvc.NewService(ctx, store, seed.Crops(), nil)
	require.NoError(t, err)
	inventorySvc, err := inventorysvc.NewService(ctx, store, seed.Inventory(), nil)
	require.NoError(t, err)
	monitoringSvc := monitoringsvc.NewService(seed.Monitoring(), nil)
	reportingSvc := reportingsvc.NewService(cropsSvc, inventorySvc, monitoringSvc, nil)

	return router.New(
		handlers.NewCropsHandler(cropsSvc, nil),
		handlers.NewInventoryHandler(inventorySvc, nil),
		handlers.NewDashboardHandler(reportingSvc, monitoringSvc, nil),
		handlers.NewReportsHandler(reportingSvc, nil, nil),
		nil,
	)
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCropCreateFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/crops", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Crops []models.Crop `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	before := len(listed.Crops)

	w = do(t, r, http.MethodPost, "/api/crops/form", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPatch, "/api/crops/form", `{
		"name": "Tomate",
		"variety": "Chonto",
		"plantingDate": "2026-09-05",
		"expectedHarvestDate": "2026-12-20",
		"area": "1.5"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/crops/form/save", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/crops", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Crops, before+1)
}

func TestCropSaveWithoutRequiredFieldsReturns422(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodPost, "/api/crops/form", "")
	w := do(t, r, http.MethodPost, "/api/crops/form/save", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "name")
}

func TestCropEditUnknownIDReturns404(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/crops/form/crop-999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCropPatchMalformedNumberReturns422(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodPost, "/api/crops/form", "")
	w := do(t, r, http.MethodPatch, "/api/crops/form", `{"area": "abc"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCropPatchRejectedBatchAppliesNothing(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodPost, "/api/crops/form", "")
	w := do(t, r, http.MethodPatch, "/api/crops/form", `{"name": "Tomate", "area": "abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, "/api/crops/form", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Draft struct {
			Name string `json:"name"`
		} `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Draft.Name)
}

func TestCropPatchWithoutOpenFormReturns409(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPatch, "/api/crops/form", `{"name": "Tomate"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInventorySearchQuery(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/inventory?q=urea", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.InventoryItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Urea", resp.Items[0].Name)

	w = do(t, r, http.MethodGet, "/api/inventory?q=zzz", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestDashboardPayload(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var summary models.DashboardSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 4, summary.TotalCrops)
	assert.Len(t, summary.StatusDistribution, 4)
	require.NotNil(t, summary.LatestReading)
}

func TestMonitoringPayload(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/monitoring", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Readings []models.MonitoringReading `json:"readings"`
		Latest   *models.MonitoringReading  `json:"latest"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Readings, 7)
	require.NotNil(t, resp.Latest)
	assert.Equal(t, resp.Readings[6].Date, resp.Latest.Date)
}

func TestReportCSVExport(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/reports/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "total_crops")
}

func TestReportExportWithoutExporterReturns503(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/reports/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
