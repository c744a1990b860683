package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jt05610/reach/graphviz"
)

var (
	vizInput  string
	vizOutput string
	vizFormat string
)

// vizCmd represents the viz command
var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Render a Petri net as a graphviz figure",
	Run: func(cmd *cobra.Command, args []string) {
		net := loadNet(vizInput)

		out := os.Stdout
		if vizOutput != "" {
			f, err := os.Create(vizOutput)
			failOnError(err, "Failed to create output file")
			defer func() {
				failOnError(f.Close(), "Failed to close output file")
			}()
			out = f
		}

		w := graphviz.New(&graphviz.Config{
			Name:   net.ID,
			Format: graphviz.Format(vizFormat),
		})
		failOnError(w.Flush(out, net), "Failed to render net")
	},
}

func init() {
	rootCmd.AddCommand(vizCmd)
	vizCmd.Flags().StringVarP(&vizInput, "input", "i", "", "path to Petri net (.net or .yaml format)")
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "output file (default stdout)")
	vizCmd.Flags().StringVar(&vizFormat, "format", string(graphviz.DOT), "output format (dot, svg, png)")
	_ = vizCmd.MarkFlagRequired("input")
}
