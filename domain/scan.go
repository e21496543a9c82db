package domain

import (
	"time"

	"github.com/google/uuid"
)

type PVScanInput struct {
	Periods     float64
	Payment     float64
	FutureValue float64
	Rates       []float64
}

type PVScanRow struct {
	Rate         float64
	PresentValue float64 // sign-flipped, as displayed
}

type PVScanResult struct {
	Rows []PVScanRow
}

type NPVScanInput struct {
	PresentValue float64 // target PV the rate must satisfy
	Periods      float64
	Payment      float64
	FutureValue  float64
	Rates        []float64
}

type NPVScanRow struct {
	Rate float64
	NPV  float64
}

type NPVScanResult struct {
	Rows []NPVScanRow
	// CrossingRate is the first candidate whose NPV sign differs from the
	// previous candidate's. Nil when NPV never changes sign.
	CrossingRate *float64 `json:",omitempty"`
}

type ScanKind string

const (
	ScanKindPV  ScanKind = "pv"
	ScanKindNPV ScanKind = "npv"
)

// ScanRecord is the stored trace of one scan request.
type ScanRecord struct {
	ID        uuid.UUID
	Kind      ScanKind
	Input     string // JSON encoded input
	RowCount  int
	CreatedAt time.Time
}
