package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvm-agent/domain"
	"tvm-agent/repository"
	"tvm-agent/service"
)

func newTestHandler() *PVHandler {
	svc := service.NewScanService(
		repository.NewScanRepositoryMemory(),
		repository.NewMemoryCache(),
	)
	return NewPVHandler(svc)
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCalculatePVHandler_OK(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.CalculatePV(w, postJSON("/pv/calculate", `{
		"Periods": 40,
		"InterestRate": 1,
		"Payment": -300,
		"FutureValue": 0
	}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result domain.PVResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, -9850.41, result.PresentValue)
}

func TestCalculatePVHandler_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/pv/calculate", nil)
	w := httptest.NewRecorder()

	handler.CalculatePV(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestCalculatePVHandler_BadRequest(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.CalculatePV(w, postJSON("/pv/calculate", `{invalid-json}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCalculatePVHandler_UnsupportedMediaType(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/pv/calculate", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	handler.CalculatePV(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCalculatePVHandler_NonFinite(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.CalculatePV(w, postJSON("/pv/calculate", `{
		"Periods": 2.5,
		"InterestRate": -150,
		"Payment": -300
	}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestScanPVHandler_OK(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ScanPV(w, postJSON("/pv/scan", `{
		"Periods": 40,
		"Payment": -300,
		"FutureValue": 0,
		"Rates": [0.95, 1.0]
	}`))

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.PVScanResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 9944.55, result.Rows[0].PresentValue)
	assert.Equal(t, 9850.41, result.Rows[1].PresentValue)
}

func TestScanPVHandler_ValidationError(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ScanPV(w, postJSON("/pv/scan", `{"Periods": 40, "Rates": []}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanNPVHandler_OK(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ScanNPV(w, postJSON("/npv/scan", `{
		"PresentValue": 10000,
		"Periods": 40,
		"Payment": -300,
		"Rates": [0.91, 0.92, 0.93]
	}`))

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.NPVScanResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.Len(t, result.Rows, 3)
	assert.Equal(t, -20.79, result.Rows[0].NPV)
	assert.Equal(t, 17.43, result.Rows[2].NPV)
	require.NotNil(t, result.CrossingRate)
	assert.Equal(t, 0.93, *result.CrossingRate)
}

func TestScanNPVHandler_ZeroRateIsNonFinite(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ScanNPV(w, postJSON("/npv/scan", `{
		"PresentValue": 10000,
		"Periods": 40,
		"Payment": -300,
		"Rates": [0]
	}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHistoryHandler(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ScanPV(w, postJSON("/pv/scan", `{"Periods": 40, "Payment": -300, "Rates": [1]}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.History(w, httptest.NewRequest(http.MethodGet, "/scans?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var records []domain.ScanRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, domain.ScanKindPV, records[0].Kind)

	w = httptest.NewRecorder()
	handler.History(w, httptest.NewRequest(http.MethodGet, "/scans?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.History(w, httptest.NewRequest(http.MethodPost, "/scans", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	mux := NewRouter(newTestHandler(), limiter)

	body := `{"Periods": 40, "InterestRate": 1, "Payment": -300}`

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, postJSON("/pv/calculate", body))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, postJSON("/pv/calculate", body))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
