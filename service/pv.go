package service

import (
	"math"

	"github.com/shopspring/decimal"

	"tvm-agent/domain"
)

// CalculatePV returns the present value of an annuity with n periods,
// periodic rate i (in percent), payment pmt and future value fv.
//
// No validation is done. Overflow and NaN follow float64 semantics.
func CalculatePV(n, i, pmt, fv float64) float64 {
	rate := i / 100
	if rate == 0 {
		return -pmt*n - fv
	}

	factor := math.Pow(1+rate, n)
	return pmt*((factor-1)/(rate*factor)) + fv/factor
}

// AnnuityFactor is the present value of a unit payment over n periods at
// decimal rate r. Undefined for r == 0.
func AnnuityFactor(r, n float64) float64 {
	factor := math.Pow(1+r, n)
	return (factor - 1) / (r * factor)
}

// PresentValue wraps CalculatePV for callers working with domain.PVInput.
func PresentValue(input domain.PVInput) domain.PVResult {
	return domain.PVResult{
		PresentValue: CalculatePV(
			input.Periods,
			input.InterestRate,
			input.Payment,
			input.FutureValue,
		),
	}
}

// RoundTo2Decimals redondea a 2 decimales. NaN e Inf se devuelven sin cambios.
func RoundTo2Decimals(value float64) float64 {
	if !IsFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
