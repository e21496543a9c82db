package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"tvm-agent/domain"
	"tvm-agent/service"
)

var errNonFinite = errors.New("resultado no finito")

type PVHandler struct {
	service *service.ScanService
}

func NewPVHandler(service *service.ScanService) *PVHandler {
	return &PVHandler{service: service}
}

// CalculatePV handles POST /pv/calculate.
func (h *PVHandler) CalculatePV(w http.ResponseWriter, r *http.Request) {
	var input domain.PVInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result := service.PresentValue(input)
	if !service.IsFinite(result.PresentValue) {
		http.Error(w, errNonFinite.Error(), http.StatusUnprocessableEntity)
		return
	}
	result.PresentValue = service.RoundTo2Decimals(result.PresentValue)

	writeJSON(w, result)
}

// ScanPV handles POST /pv/scan.
func (h *PVHandler) ScanPV(w http.ResponseWriter, r *http.Request) {
	var input domain.PVScanInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.ScanPV(r.Context(), input)
	if err != nil {
		log.Printf("Error scanning PV: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]domain.PVScanRow, len(result.Rows))
	for i, row := range result.Rows {
		if !service.IsFinite(row.PresentValue) {
			http.Error(w, errNonFinite.Error(), http.StatusUnprocessableEntity)
			return
		}
		rows[i] = domain.PVScanRow{
			Rate:         row.Rate,
			PresentValue: service.RoundTo2Decimals(row.PresentValue),
		}
	}

	writeJSON(w, domain.PVScanResult{Rows: rows})
}

// ScanNPV handles POST /npv/scan.
func (h *PVHandler) ScanNPV(w http.ResponseWriter, r *http.Request) {
	var input domain.NPVScanInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.ScanNPV(r.Context(), input)
	if err != nil {
		log.Printf("Error scanning NPV: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]domain.NPVScanRow, len(result.Rows))
	for i, row := range result.Rows {
		if !service.IsFinite(row.NPV) {
			http.Error(w, errNonFinite.Error(), http.StatusUnprocessableEntity)
			return
		}
		rows[i] = domain.NPVScanRow{
			Rate: row.Rate,
			NPV:  service.RoundTo2Decimals(row.NPV),
		}
	}

	writeJSON(w, domain.NPVScanResult{Rows: rows, CrossingRate: result.CrossingRate})
}

// History handles GET /scans?limit=N.
func (h *PVHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing scans: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, records)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	// Validar Content-Type
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("Error decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
