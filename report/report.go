// Package report prints rate scans as plain text for manual inspection.
package report

import (
	"bufio"
	"fmt"
	"io"

	"tvm-agent/domain"
)

// Params are the fixed inputs of the two scan sections.
type Params struct {
	Periods            float64
	Payment            float64
	FutureValue        float64
	TargetPresentValue float64
	PVRates            []float64
	NPVRates           []float64
}

func (p Params) PVScanInput() domain.PVScanInput {
	return domain.PVScanInput{
		Periods:     p.Periods,
		Payment:     p.Payment,
		FutureValue: p.FutureValue,
		Rates:       p.PVRates,
	}
}

func (p Params) NPVScanInput() domain.NPVScanInput {
	return domain.NPVScanInput{
		PresentValue: p.TargetPresentValue,
		Periods:      p.Periods,
		Payment:      p.Payment,
		FutureValue:  p.FutureValue,
		Rates:        p.NPVRates,
	}
}

// Write prints the PV section followed by the NPV section.
func Write(
	w io.Writer,
	p Params,
	pv domain.PVScanResult,
	npv domain.NPVScanResult,
) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "For n=%g, PMT=%g, FV=%g (testing around %.2f%%):\n",
		p.Periods, p.Payment, p.FutureValue, centerRate(p.PVRates))
	for _, row := range pv.Rows {
		fmt.Fprintf(bw, "i=%.2f%%: PV=%.2f\n", row.Rate, row.PresentValue)
	}

	fmt.Fprint(bw, "\n\nHP12c TVM: Solves for i where PV + PMT×annuity + FV/(1+i)^n = 0\n")
	fmt.Fprintf(bw, "With: PV=%g, PMT=%g, n=%g, FV=%g\n",
		p.TargetPresentValue, p.Payment, p.Periods, p.FutureValue)
	for _, row := range npv.Rows {
		fmt.Fprintf(bw, "i=%.2f%%: NPV=%.2f (should be ~0 for solution)\n", row.Rate, row.NPV)
	}

	return bw.Flush()
}

func centerRate(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	return rates[(len(rates)-1)/2]
}
