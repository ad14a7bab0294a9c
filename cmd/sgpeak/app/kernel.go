package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sgpeak/dsp/peak"
	"github.com/cwbudde/algo-sgpeak/dsp/savgol"
)

// NewKernelCommand creates the kernel subcommand, which prints the interior
// smoothing and slope coefficients for a window and degree.
func NewKernelCommand() *cobra.Command {
	def := peak.DefaultConfig()
	window, degree := def.Window, def.Degree

	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Print Savitzky-Golay coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := savgol.Validate(window, degree); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return printKernel(cmd.OutOrStdout(), window, degree)
		},
	}

	cmd.Flags().IntVar(&window, "window", window, "smoothing window in samples (odd)")
	cmd.Flags().IntVar(&degree, "degree", degree, "polynomial degree")
	return cmd
}

func printKernel(w io.Writer, window, degree int) error {
	value, err := savgol.Design(window, degree, 0)
	if err != nil {
		return err
	}
	slope, err := savgol.Design(window, degree, 1)
	if err != nil {
		return err
	}
	vc, sc := value.Coefficients(), slope.Coefficients()
	q := value.HalfWidth()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window %d, degree %d\n\n", window, degree)
	fmt.Fprintf(tw, "Offset\tValue\tSlope\n")
	fmt.Fprintf(tw, "------\t-----\t-----\n")

	var vSum, sSum, vRamp, sRamp float64
	for i := range vc {
		k := float64(i - q)
		vSum += vc[i]
		sSum += sc[i]
		vRamp += k * vc[i]
		sRamp += k * sc[i]
		fmt.Fprintf(tw, "%d\t%.8f\t%.8f\n", i-q, vc[i], sc[i])
	}
	fmt.Fprintf(tw, "------\t-----\t-----\n")
	fmt.Fprintf(tw, "DC gain\t%.8f\t%.8f\n", vSum, sSum)
	fmt.Fprintf(tw, "Ramp gain\t%.8f\t%.8f\n", vRamp, sRamp)
	return tw.Flush()
}
