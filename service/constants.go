package service

const (
	MaxRatesPerScan = 200  // máximo de tasas candidatas por escaneo
	MaxPeriods      = 1200 // 100 años en meses

	DefaultPeriods            = 40.0
	DefaultPayment            = -300.0
	DefaultFutureValue        = 0.0
	DefaultTargetPresentValue = 10000.0
)

// DefaultPVScanRates is the candidate list around 0.97%.
func DefaultPVScanRates() []float64 {
	return []float64{0.95, 0.96, 0.97, 0.98, 0.99, 1.00}
}

// DefaultNPVScanRates brackets the rate solving PV=10000, PMT=-300, n=40.
func DefaultNPVScanRates() []float64 {
	return []float64{0.85, 0.87, 0.89, 0.90, 0.91, 0.92, 0.93}
}
