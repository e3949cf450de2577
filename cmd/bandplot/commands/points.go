package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panyam/bandplot/bands"
)

var pointsCmd = &cobra.Command{
	Use:   "points SOURCE...",
	Short: "List the high-symmetry points the datasets define",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, err := loadDatasets(cmd.Context(), args)
		if err != nil {
			return err
		}
		names := bands.ValidPointNames(datasets)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Default path: %s\n", datasets[0].Path.String())
		fmt.Fprintf(out, "Label format: %s\n\n", bands.DetectLabelFormat(names))
		fmt.Fprintln(out, bands.HelpText(names))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}
