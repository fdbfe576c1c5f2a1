package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
	apphttp "github.com/jhoicas/insumos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs de servicios
// ──────────────────────────────────────────────────────────────────────────────

type stubCatalog struct {
	options     *dto.OptionsResponse
	err         error
	invalidated []string
	lastQuery   string
	lastGrouped bool
}

func (s *stubCatalog) Options(_ context.Context, _, query string, grouped bool) (*dto.OptionsResponse, error) {
	s.lastQuery, s.lastGrouped = query, grouped
	return s.options, s.err
}

func (s *stubCatalog) Formats(_ context.Context, materialID string) (*dto.FormatsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FormatsResponse{MaterialID: materialID, Formats: []dto.FormatDTO{}}, nil
}

func (s *stubCatalog) InvalidateFormats(materialID string) {
	s.invalidated = append(s.invalidated, materialID)
}

func (s *stubCatalog) ValidateRequest(_ context.Context, in dto.ValidateRequestInput) (*dto.ValidateRequestResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ValidateRequestResponse{Rows: []insumo.RowResult{}, Payload: []dto.PayloadLine{}, Valid: len(in.Lines) > 0}, nil
}

type stubAllocations struct {
	allocateErr  error
	allocateOut  *dto.AllocationResponse
	batchOut     *dto.AllocateAllResponse
	batchErr     error
	reverseErr   error
	gotLines     []insumo.Candidate
	gotWarehouse string
	gotConfirm   bool
}

func (s *stubAllocations) CandidateLots(_ context.Context, registroID, _ string) (*dto.CandidateLotsResponse, error) {
	return &dto.CandidateLotsResponse{Registro: dto.RegistroDTO{ID: registroID}, Lots: []dto.LotDTO{}}, nil
}

func (s *stubAllocations) Allocations(_ context.Context, registroID string) (*dto.RegistroAllocationsResponse, error) {
	return &dto.RegistroAllocationsResponse{Registro: dto.RegistroDTO{ID: registroID}}, nil
}

func (s *stubAllocations) Allocate(_ context.Context, _, warehouseID string, candidates []insumo.Candidate) (*dto.AllocationResponse, error) {
	s.gotWarehouse = warehouseID
	s.gotLines = candidates
	return s.allocateOut, s.allocateErr
}

func (s *stubAllocations) AllocateAll(_ context.Context, _, warehouseID string, _ map[string][]insumo.Candidate) (*dto.AllocateAllResponse, error) {
	s.gotWarehouse = warehouseID
	return s.batchOut, s.batchErr
}

func (s *stubAllocations) PreviewReversal(_ context.Context, registroID, lotID string) (*dto.ReversalResponse, error) {
	return &dto.ReversalResponse{Plan: insumo.ReversalPlan{
		RegistroID: registroID, LotID: lotID, Summary: "se devolverán 7.5 kg al bulto BLT-0001 (3 unidades de 2.5 kg)",
	}}, nil
}

func (s *stubAllocations) Reverse(_ context.Context, registroID, lotID string, confirm bool) (*dto.ReversalResponse, error) {
	s.gotConfirm = confirm
	if !confirm {
		return nil, domain.ErrConfirmationRequired
	}
	if s.reverseErr != nil {
		return nil, s.reverseErr
	}
	return &dto.ReversalResponse{Plan: insumo.ReversalPlan{RegistroID: registroID, LotID: lotID}, Applied: true}, nil
}

type stubPreflight struct {
	out *dto.PreflightResponse
	err error
}

func (s *stubPreflight) Check(context.Context, dto.PreflightInput) (*dto.PreflightResponse, error) {
	return s.out, s.err
}

func (s *stubPreflight) Report(context.Context, string, dto.PreflightInput) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildApp(catalog *stubCatalog, allocations *stubAllocations, preflight *stubPreflight) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:     catalog,
		Allocations: allocations,
		Preflight:   preflight,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("insumos_allocations_accepted_total 1\n"))
		}),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestOptions_RequiereBodega(t *testing.T) {
	app := buildApp(&stubCatalog{}, &stubAllocations{}, &stubPreflight{})

	resp, body := do(t, app, http.MethodGet, "/api/insumos/options", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, body["code"])
}

func TestOptions_PasaFiltros(t *testing.T) {
	catalog := &stubCatalog{options: &dto.OptionsResponse{WarehouseID: "BOD-1", Options: []insumo.Option{{Value: "INS-001"}}, Total: 1}}
	app := buildApp(catalog, &stubAllocations{}, &stubPreflight{})

	resp, body := do(t, app, http.MethodGet, "/api/insumos/options?warehouse_id=BOD-1&q=lehce&grouped=true", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "lehce", catalog.lastQuery)
	assert.True(t, catalog.lastGrouped)
	assert.EqualValues(t, 1, body["total"])
}

func TestOptions_FalloDeCarga(t *testing.T) {
	app := buildApp(&stubCatalog{err: errors.New("timeout")}, &stubAllocations{}, &stubPreflight{})

	resp, body := do(t, app, http.MethodGet, "/api/insumos/options?warehouse_id=BOD-1", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, apphttp.CodeLoadFailed, body["code"])
	assert.Contains(t, body["message"], "no se pudo cargar")
}

func TestInvalidateCache(t *testing.T) {
	catalog := &stubCatalog{}
	app := buildApp(catalog, &stubAllocations{}, &stubPreflight{})

	resp, _ := do(t, app, http.MethodPost, "/api/insumos/cache/invalidate?material_id=INS-002", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"INS-002"}, catalog.invalidated)
}

func TestValidateRequest_CuerpoInvalido(t *testing.T) {
	app := buildApp(&stubCatalog{}, &stubAllocations{}, &stubPreflight{})

	resp, body := do(t, app, http.MethodPost, "/api/insumos/requests/validate", "{no-json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidBody, body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_Aceptada(t *testing.T) {
	allocations := &stubAllocations{allocateOut: &dto.AllocationResponse{Total: decimal.NewFromInt(10)}}
	app := buildApp(&stubCatalog{}, allocations, &stubPreflight{})

	resp, _ := do(t, app, http.MethodPost, "/api/registros/REG-1/allocations",
		`{"warehouse_id":"BOD-1","allocations":[{"lot_id":"LOT-A","quantity_used":"4.003"},{"lot_id":"LOT-B","quantity_used":6.002}]}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "BOD-1", allocations.gotWarehouse)
	require.Len(t, allocations.gotLines, 2)
	assert.Equal(t, "LOT-A", allocations.gotLines[0].LotID)
	assert.Equal(t, "6.002", allocations.gotLines[1].Quantity.String())
}

func TestAllocate_Exceso(t *testing.T) {
	allocations := &stubAllocations{allocateErr: &insumo.AllocationError{
		Kind: insumo.KindExcessAllocation, Attempted: decimal.NewFromInt(16), Needed: decimal.NewFromInt(10), Unit: "kg",
	}}
	app := buildApp(&stubCatalog{}, allocations, &stubPreflight{})

	resp, body := do(t, app, http.MethodPost, "/api/registros/REG-1/allocations", `{"allocations":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EXCESS_ALLOCATION", body["code"])
	assert.Equal(t, "la cantidad total asignada (16 kg) excede la requerida (10 kg)", body["message"])
}

func TestAllocate_ErroresDeDominio(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrRegistroCompleted, http.StatusConflict, apphttp.CodeRegistroCompleted},
		{domain.ErrLotExhausted, http.StatusConflict, apphttp.CodeLotExhausted},
		{domain.ErrNotFound, http.StatusNotFound, apphttp.CodeNotFound},
		{&insumo.AllocationError{Kind: insumo.KindNoLotsSelected}, http.StatusUnprocessableEntity, "NO_LOTS_SELECTED"},
		{errors.New("conexión perdida"), http.StatusInternalServerError, apphttp.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := buildApp(&stubCatalog{}, &stubAllocations{allocateErr: tt.err}, &stubPreflight{})
			resp, body := do(t, app, http.MethodPost, "/api/registros/REG-1/allocations", `{"allocations":[]}`)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestAllocateAll_BloqueadoConComprometidos(t *testing.T) {
	allocations := &stubAllocations{
		batchOut: &dto.AllocateAllResponse{BatchID: "b-1", Committed: []dto.AllocationResponse{{Registro: dto.RegistroDTO{ID: "REG-1"}}}},
		batchErr: &insumo.BatchBlockedError{RegistroID: "REG-2", Material: "Sal", Cause: domain.ErrLotExhausted},
	}
	app := buildApp(&stubCatalog{}, allocations, &stubPreflight{})

	resp, body := do(t, app, http.MethodPost, "/api/orders/OP-1/allocations", `{"warehouse_id":"BOD-1","allocations":{}}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "BOD-1", allocations.gotWarehouse)
	assert.Equal(t, apphttp.CodeBatchBlocked, body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "REG-2", details["registro_id"])
	assert.Equal(t, apphttp.CodeLotExhausted, details["cause"])
	assert.Len(t, details["committed"], 1)
}

func TestAllocateAll_BloqueadoAntesDeEnviar(t *testing.T) {
	allocations := &stubAllocations{
		batchErr: &insumo.BatchBlockedError{RegistroID: "REG-2", Material: "Sal", Cause: &insumo.AllocationError{Kind: insumo.KindNoLotsSelected}},
	}
	app := buildApp(&stubCatalog{}, allocations, &stubPreflight{})

	resp, body := do(t, app, http.MethodPost, "/api/orders/OP-1/allocations", `{"allocations":{}}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NO_LOTS_SELECTED", details["cause"])
	assert.NotContains(t, details, "committed")
}

func TestReverse_RequiereConfirmacion(t *testing.T) {
	allocations := &stubAllocations{}
	app := buildApp(&stubCatalog{}, allocations, &stubPreflight{})

	resp, body := do(t, app, http.MethodDelete, "/api/registros/REG-1/allocations/LOT-A", "")
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConfirmationRequired, body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details["summary"], "3 unidades de 2.5 kg")

	resp, body = do(t, app, http.MethodDelete, "/api/registros/REG-1/allocations/LOT-A?confirm=true", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, allocations.gotConfirm)
	assert.Equal(t, true, body["applied"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestPreflight_Faltantes(t *testing.T) {
	items := []insumo.MissingItem{{Name: "Harina", Origin: insumo.OriginIngredient}}
	preflight := &stubPreflight{
		out: &dto.PreflightResponse{Missing: items},
		err: &insumo.MissingInsumosError{Items: items},
	}
	app := buildApp(&stubCatalog{}, &stubAllocations{}, preflight)

	resp, body := do(t, app, http.MethodPost, "/api/orders/preflight", `{"ingredients":[]}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeMissingInsumos, body["code"])
	assert.Len(t, body["details"], 1)
}

func TestPreflightReport_PDF(t *testing.T) {
	app := buildApp(&stubCatalog{}, &stubAllocations{}, &stubPreflight{})

	resp, _ := do(t, app, http.MethodPost, "/api/orders/preflight/report?title=OP-1", `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestMetrics(t *testing.T) {
	app := buildApp(&stubCatalog{}, &stubAllocations{}, &stubPreflight{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "insumos_allocations_accepted_total")
}
