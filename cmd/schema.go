// =============================================================================
// DDOT Validator - Schema Command
// =============================================================================
//
// COMMAND USAGE:
//   ddot schema [--output FILE]
//
// Prints the XSD describing the xml outputs written by the process command.
// The schema follows the configured xml_namespace.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ddot-validator/internal/converter"
	"github.com/ginjaninja78/ddot-validator/internal/xmlwriter"
)

var schemaOutput string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the XSD for xml outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		xsd := xmlwriter.GenerateXSD(converter.XMLOptions(appConfig))

		if schemaOutput == "" {
			_, err := cmd.OutOrStdout().Write(xsd)
			return err
		}

		if err := os.WriteFile(schemaOutput, xsd, 0644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		logger.Info().Str("output", schemaOutput).Msg("wrote schema")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write the schema to this file instead of stdout")
}
