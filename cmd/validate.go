// =============================================================================
// DDOT Validator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   ddot validate [--json] FILE...
//
// Each file is parsed and validated without writing anything. The command
// prints one line per file and exits non-zero when any file fails. With
// --json the site records of valid files are printed to stdout instead.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ddot-validator/internal/config"
	"github.com/ginjaninja78/ddot-validator/internal/converter"
	"github.com/ginjaninja78/ddot-validator/internal/types"
)

var printJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate DDOT files without writing outputs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&printJSON, "json", false, "Print the parsed site records as JSON")
}

func runValidate(out io.Writer, paths []string) error {
	failed := 0

	for _, path := range paths {
		result := converter.New(path, appConfig, logger).WithDryRun(true).Run()

		if !result.Success {
			failed++
			fmt.Fprintf(out, "FAIL %s [%s]: %v\n", path, types.KindOf(result.Error), result.Error)
			continue
		}

		if printJSON {
			data, err := converter.Render(result.Records, config.FormatJSON)
			if err != nil {
				return err
			}
			out.Write(data)
			continue
		}

		fmt.Fprintf(out, "OK   %s (%d transactions, %d site records)\n",
			path, result.Stats.Transactions, result.Stats.Records)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(paths))
	}
	return nil
}
