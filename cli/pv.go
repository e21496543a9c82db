package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tvm-agent/service"
)

func newPVCommand() *cobra.Command {
	var n, i, pmt, fv float64

	cmd := &cobra.Command{
		Use:   "pv",
		Short: "Compute a single present value",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			pv := service.CalculatePV(n, i, pmt, fv)
			fmt.Fprintf(cmd.OutOrStdout(), "n=%g, i=%.2f%%, PMT=%g, FV=%g: PV=%.2f\n", n, i, pmt, fv, pv)
		},
	}

	cmd.Flags().Float64Var(&n, "n", service.DefaultPeriods, "number of periods")
	cmd.Flags().Float64Var(&i, "i", 1, "periodic interest rate in percent")
	cmd.Flags().Float64Var(&pmt, "pmt", service.DefaultPayment, "periodic payment (outflow negative)")
	cmd.Flags().Float64Var(&fv, "fv", service.DefaultFutureValue, "future value")

	return cmd
}
