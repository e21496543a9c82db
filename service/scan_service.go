package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"tvm-agent/domain"
	"tvm-agent/repository"
)

type ScanService struct {
	repo  repository.ScanRepository
	cache repository.CacheRepository
	now   func() time.Time
}

// NewScanService creates a new ScanService with the given repository and cache.
func NewScanService(repo repository.ScanRepository,
	cache repository.CacheRepository,
) *ScanService {
	return &ScanService{repo: repo, cache: cache, now: time.Now}
}

// ScanPV evaluates CalculatePV at every candidate rate. The reported present
// value is sign-flipped so that a negative payment shows a positive PV.
func (s *ScanService) ScanPV(
	ctx context.Context,
	input domain.PVScanInput,
) (domain.PVScanResult, error) {

	if err := validateScan(input.Periods, input.Rates); err != nil {
		return domain.PVScanResult{}, err
	}

	var result domain.PVScanResult
	key := cacheKey(domain.ScanKindPV, input)
	if s.fromCache(ctx, key, &result) {
		s.record(ctx, domain.ScanKindPV, input, len(result.Rows))
		return result, nil
	}

	result.Rows = make([]domain.PVScanRow, 0, len(input.Rates))
	for _, rate := range input.Rates {
		pv := CalculatePV(input.Periods, rate, input.Payment, input.FutureValue)
		result.Rows = append(result.Rows, domain.PVScanRow{
			Rate:         rate,
			PresentValue: -pv,
		})
	}

	s.toCache(ctx, key, result)
	s.record(ctx, domain.ScanKindPV, input, len(result.Rows))

	return result, nil
}

// ScanNPV evaluates target + pmt*annuity + fv/(1+r)^n at every candidate
// rate. It does not go through CalculatePV.
func (s *ScanService) ScanNPV(
	ctx context.Context,
	input domain.NPVScanInput,
) (domain.NPVScanResult, error) {

	if err := validateScan(input.Periods, input.Rates); err != nil {
		return domain.NPVScanResult{}, err
	}

	var result domain.NPVScanResult
	key := cacheKey(domain.ScanKindNPV, input)
	if s.fromCache(ctx, key, &result) {
		s.record(ctx, domain.ScanKindNPV, input, len(result.Rows))
		return result, nil
	}

	result.Rows = make([]domain.NPVScanRow, 0, len(input.Rates))
	for _, rate := range input.Rates {
		r := rate / 100
		factor := math.Pow(1+r, input.Periods)
		annuity := AnnuityFactor(r, input.Periods)
		npv := input.PresentValue + input.Payment*annuity + input.FutureValue/factor

		result.Rows = append(result.Rows, domain.NPVScanRow{
			Rate: rate,
			NPV:  npv,
		})
	}
	result.CrossingRate = crossingRate(result.Rows)

	s.toCache(ctx, key, result)
	s.record(ctx, domain.ScanKindNPV, input, len(result.Rows))

	return result, nil
}

// History returns the most recent scans.
func (s *ScanService) History(
	ctx context.Context,
	limit int,
) ([]domain.ScanRecord, error) {
	if limit < 0 {
		return nil, errors.New("límite inválido")
	}
	return s.repo.List(ctx, limit)
}

func validateScan(periods float64, rates []float64) error {
	if math.IsNaN(periods) || periods <= 0 {
		return errors.New("periodos inválidos")
	}
	if periods > MaxPeriods {
		return fmt.Errorf("periodos exceden el máximo permitido de %d", MaxPeriods)
	}
	if len(rates) == 0 {
		return errors.New("no se proporcionaron tasas")
	}
	if len(rates) > MaxRatesPerScan {
		return fmt.Errorf("número de tasas excede el máximo de %d", MaxRatesPerScan)
	}
	return nil
}

// crossingRate devuelve la primera tasa donde el NPV cambia de signo
// (o es exactamente cero).
func crossingRate(rows []domain.NPVScanRow) *float64 {
	for i, row := range rows {
		if math.IsNaN(row.NPV) {
			continue
		}
		if row.NPV == 0 {
			rate := row.Rate
			return &rate
		}
		if i == 0 || math.IsNaN(rows[i-1].NPV) {
			continue
		}
		if (rows[i-1].NPV < 0) != (row.NPV < 0) {
			rate := row.Rate
			return &rate
		}
	}
	return nil
}

func cacheKey(kind domain.ScanKind, input any) string {
	raw, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	return string(kind) + ":" + string(raw)
}

func (s *ScanService) fromCache(ctx context.Context, key string, out any) bool {
	if key == "" {
		return false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("Warning: discarding corrupt cache entry %q: %v", key, err)
		return false
	}
	return true
}

// toCache stores result. Non-finite values cannot be encoded and are skipped.
func (s *ScanService) toCache(ctx context.Context, key string, result any) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		log.Printf("Warning: failed to cache scan result: %v", err)
	}
}

// Guardar el escaneo (no crítico si falla)
func (s *ScanService) record(
	ctx context.Context,
	kind domain.ScanKind,
	input any,
	rowCount int,
) {
	raw, err := json.Marshal(input)
	if err != nil {
		raw = []byte(fmt.Sprintf("%q", fmt.Sprintf("%+v", input)))
	}

	record := domain.ScanRecord{
		ID:        uuid.New(),
		Kind:      kind,
		Input:     string(raw),
		RowCount:  rowCount,
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		log.Printf("Warning: failed to save %s scan: %v", kind, err)
	}
}
