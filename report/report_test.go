package report

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvm-agent/repository"
	"tvm-agent/service"
)

func defaultParams() Params {
	return Params{
		Periods:            service.DefaultPeriods,
		Payment:            service.DefaultPayment,
		FutureValue:        service.DefaultFutureValue,
		TargetPresentValue: service.DefaultTargetPresentValue,
		PVRates:            service.DefaultPVScanRates(),
		NPVRates:           service.DefaultNPVScanRates(),
	}
}

func render(t *testing.T, p Params) string {
	t.Helper()
	ctx := context.Background()
	svc := service.NewScanService(
		repository.NewScanRepositoryMemory(),
		repository.NewMemoryCache(),
	)

	pv, err := svc.ScanPV(ctx, p.PVScanInput())
	require.NoError(t, err)
	npv, err := svc.ScanNPV(ctx, p.NPVScanInput())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p, pv, npv))
	return buf.String()
}

func TestWrite_DefaultOutput(t *testing.T) {
	want := `For n=40, PMT=-300, FV=0 (testing around 0.97%):
i=0.95%: PV=9944.55
i=0.96%: PV=9925.62
i=0.97%: PV=9906.74
i=0.98%: PV=9887.91
i=0.99%: PV=9869.13
i=1.00%: PV=9850.41


HP12c TVM: Solves for i where PV + PMT×annuity + FV/(1+i)^n = 0
With: PV=10000, PMT=-300, n=40, FV=0
i=0.85%: NPV=-136.69 (should be ~0 for solution)
i=0.87%: NPV=-97.85 (should be ~0 for solution)
i=0.89%: NPV=-59.21 (should be ~0 for solution)
i=0.90%: NPV=-39.98 (should be ~0 for solution)
i=0.91%: NPV=-20.79 (should be ~0 for solution)
i=0.92%: NPV=-1.65 (should be ~0 for solution)
i=0.93%: NPV=17.43 (should be ~0 for solution)
`

	assert.Equal(t, want, render(t, defaultParams()))
}

func TestWrite_PVLinesDecreasing(t *testing.T) {
	out := render(t, defaultParams())
	line := regexp.MustCompile(`^i=(\d+\.\d{2})%: PV=(-?\d+\.\d{2})$`)

	var values []float64
	for _, l := range strings.Split(out, "\n") {
		m := line.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		values = append(values, v)
	}

	require.Len(t, values, 6)
	for i := 1; i < len(values); i++ {
		assert.Less(t, values[i], values[i-1])
	}
}

func TestWrite_NonFinitePassesThrough(t *testing.T) {
	p := defaultParams()
	p.NPVRates = []float64{0}

	out := render(t, p)
	assert.Contains(t, out, "i=0.00%: NPV=NaN (should be ~0 for solution)")
}
