package app

import (
	"context"
	"flag"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the sgpeak command tree.
func NewRootCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sgpeak",
		Short: "Savitzky-Golay peak caller for promoter score tracks",
		Long: `sgpeak smooths PRI score tracks with a Savitzky-Golay filter, picks local
maxima that exceed the PRI and IGI thresholds and merges peaks that lie
close together. One peak file is written per PRI/IGI/IGI triple.`,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmd.AddCommand(NewFindCommand(ctx), NewKernelCommand())
	return cmd
}
