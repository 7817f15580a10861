package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chazu/precast/pkg/beam"
	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/schedule"
	"github.com/chazu/precast/pkg/tessellate"
)

var (
	genParams   string
	genOutput   string
	genFormat   string
	genMesh     string
	genSchedule string
	genOrigin   []float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a beam and write its summary",
	Long: `Generate the beam described by a parameter file and write a summary of
the result: the parameters used, the solid's bounding box, both bar rows
and the handles.

Examples:
  # Summary as JSON on stdout
  beamgen generate -p examples/bridge_beam.yaml

  # YAML summary, triangle mesh and bar schedule
  beamgen generate -p examples/bridge_beam.lisp --format yaml -o beam.yaml \
      --mesh beam.mesh.json --schedule beam.xlsx

  # Mesh placed at an insertion point of the host model
  beamgen generate -p examples/bridge_beam.yaml --mesh beam.mesh.json \
      --origin 12000,0,5400`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genParams, "params", "p", "", "Parameter file (.yaml, .lisp or .zy) [required]")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Summary output file (default stdout)")
	generateCmd.Flags().StringVar(&genFormat, "format", "json", "Summary format: json, yaml or msgpack")
	generateCmd.Flags().StringVar(&genMesh, "mesh", "", "Write the tessellated solid to this JSON file")
	generateCmd.Flags().Float64SliceVar(&genOrigin, "origin", []float64{0, 0, 0}, "Mesh insertion point x,y,z in mm")
	generateCmd.Flags().StringVar(&genSchedule, "schedule", "", "Write the bar schedule to this XLSX file")

	generateCmd.MarkFlagRequired("params")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	format, err := beam.ParseFormat(genFormat)
	if err != nil {
		return err
	}

	a := newApp()
	set, err := a.LoadParams(genParams)
	if err != nil {
		return err
	}
	res, err := a.Generate(set)
	if err != nil {
		return err
	}

	if err := writeSummary(res, format); err != nil {
		return err
	}

	if genMesh != "" {
		if len(genOrigin) != 3 {
			return fmt.Errorf("--origin needs 3 coordinates, got %d", len(genOrigin))
		}
		origin := geom.Vec{X: genOrigin[0], Y: genOrigin[1], Z: genOrigin[2]}
		meshes, err := a.Mesh(res, tessellate.WithOffset(origin))
		if err != nil {
			return err
		}
		if err := writeJSON(genMesh, meshes); err != nil {
			return err
		}
		var volume float64
		for _, m := range meshes {
			volume += m.Volume
		}
		log.Info().Str("file", genMesh).Int("meshes", len(meshes)).
			Float64("concrete_m3", volume*1e-9).Msg("mesh written")
	}

	if genSchedule != "" {
		s := schedule.FromResult(res)
		if err := s.SaveXLSX(genSchedule); err != nil {
			return err
		}
		log.Info().Str("file", genSchedule).Int("bars", s.Count()).
			Float64("mass_kg", s.Mass()).Msg("schedule written")
	}
	return nil
}

func writeSummary(res *beam.Result, format beam.Format) error {
	out, closeOut, err := output(genOutput)
	if err != nil {
		return err
	}
	if err := res.Summary().Encode(out, format); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
