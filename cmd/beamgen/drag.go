package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chazu/precast/pkg/params"
)

var (
	dragParams string
	dragHandle string
	dragDelta  float64
	dragOutput string
)

var dragCmd = &cobra.Command{
	Use:   "drag",
	Short: "Drag a handle and print the edited parameters",
	Long: `Move one of the beam's dimension handles and print the edited parameter
set as YAML. The edited beam is regenerated to check that it is valid.

Handles: Length, Height, TopWidth, MiddleWidth, BottomWidth. Width handles
are symmetric: dragging by D widens the slab by 2D.

Examples:
  # Lengthen the beam by 500 mm
  beamgen drag -p examples/bridge_beam.yaml --handle Length --delta 500

  # Narrow the web by 40 mm and save the result
  beamgen drag -p beam.yaml --handle MiddleWidth --delta -20 -o beam.yaml`,
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)

	dragCmd.Flags().StringVarP(&dragParams, "params", "p", "", "Parameter file (.yaml, .lisp or .zy) [required]")
	dragCmd.Flags().StringVar(&dragHandle, "handle", "", "Handle name [required]")
	dragCmd.Flags().Float64Var(&dragDelta, "delta", 0, "Displacement along the handle direction (mm) [required]")
	dragCmd.Flags().StringVarP(&dragOutput, "output", "o", "", "Output file (default stdout)")

	dragCmd.MarkFlagRequired("params")
	dragCmd.MarkFlagRequired("handle")
	dragCmd.MarkFlagRequired("delta")
}

func runDrag(cmd *cobra.Command, args []string) error {
	a := newApp()
	set, err := a.LoadParams(dragParams)
	if err != nil {
		return err
	}
	edited, res, err := a.Drag(set, dragHandle, dragDelta)
	if err != nil {
		return err
	}
	log.Info().Str("handle", dragHandle).Float64("delta", dragDelta).
		Int("warnings", len(res.Warnings)).Msg("beam regenerated")

	out, closeOut, err := output(dragOutput)
	if err != nil {
		return err
	}
	if err := params.WriteYAML(out, edited); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
