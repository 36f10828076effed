// =============================================================================
// DDOT Validator - Main Entry Point
// =============================================================================
//
// USAGE:
//   ddot process       - Validate and convert every DDOT file in the input directory
//   ddot validate      - Validate the named DDOT files and report the result
//   ddot codes         - List the DDOT code table
//   ddot schema        - Print the XSD for xml outputs
//   ddot version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing pipeline, writers, configuration, logging
//   - pkg/           : File management utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ddot-validator/cmd"
)

func main() {
	cmd.Execute()
}
