package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ddot-validator/internal/codes"
)

// codesCmd lists the code table.
var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the DDOT code table",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tATTRIBUTE")
		for _, entry := range codes.All() {
			fmt.Fprintf(w, "%s\t%s\n", entry.Code, entry.Attribute)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "\n%d codes, %d attributes\n", codes.Len(), len(codes.Attributes()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
