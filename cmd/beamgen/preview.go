package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chazu/precast/internal/app"
)

var (
	previewScript string
	previewOutput string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Evaluate a parameter script into editor preview data",
	Long: `Evaluate a Lisp parameter script and write what an editor needs to show
it: the tessellated meshes with their colours and volumes, script and
geometry errors with line numbers, and warnings such as a clamped bar
depth. Errors are part of the output; the command itself only fails when
the script cannot be read or the output cannot be written.

Examples:
  beamgen preview -s examples/bridge_beam.lisp -o preview.json`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewScript, "script", "s", "", "Parameter script (.lisp or .zy) [required]")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "JSON output file (default stdout)")

	previewCmd.MarkFlagRequired("script")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if !app.IsScript(previewScript) {
		return fmt.Errorf("%s: preview needs a .lisp or .zy script", previewScript)
	}
	src, err := os.ReadFile(previewScript)
	if err != nil {
		return err
	}

	result := newApp().Evaluate(string(src))
	log.Info().Str("script", previewScript).Int("meshes", len(result.Meshes)).
		Int("errors", len(result.Errors)).Int("warnings", len(result.Warnings)).
		Msg("script evaluated")

	out, closeOut, err := output(previewOutput)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(out).Encode(result); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
