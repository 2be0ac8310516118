package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/divarsearch/internal/city"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the supported cities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSLUG")
		for _, m := range city.All() {
			fmt.Fprintf(tw, "%s\t%s\n", m.Native, m.Slug)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}
