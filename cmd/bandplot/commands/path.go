package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panyam/bandplot/bands"
)

var pathPretty bool

var pathCmd = &cobra.Command{
	Use:   "path TEXT",
	Short: "Normalize a path text and list its segments",
	Example: `  bandplot path " GAMMA - X -- M | K-GAMMA"
  bandplot path --pretty "GAMMA-X_1|Y-SIGMA"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := bands.PathFromText(args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, bands.TextFromPath(path))

		pretty := bands.Prettifier{Format: bands.DetectLabelFormat(path.Points())}
		for i, seg := range path {
			from, to := seg.From, seg.To
			if pathPretty {
				from, to = pretty.Label(from), pretty.Label(to)
			}
			fmt.Fprintf(out, "%3d  %s -> %s\n", i, from, to)
		}
		return nil
	},
}

func init() {
	pathCmd.Flags().BoolVar(&pathPretty, "pretty", false, "Show display labels instead of raw names")
	rootCmd.AddCommand(pathCmd)
}
