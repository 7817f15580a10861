package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/precast/pkg/schedule"
)

var (
	schedParams string
	schedOutput string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Write the bar bending schedule of a beam",
	Long: `Generate the beam and write its bar bending schedule to an XLSX
workbook: one row per bar row with mark, diameter, steel grade, count,
developed length, total length and mass. The schedule is also printed.

Examples:
  beamgen schedule -p examples/bridge_beam.yaml -o schedule.xlsx`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVarP(&schedParams, "params", "p", "", "Parameter file (.yaml, .lisp or .zy) [required]")
	scheduleCmd.Flags().StringVarP(&schedOutput, "output", "o", "", "XLSX output file [required]")

	scheduleCmd.MarkFlagRequired("params")
	scheduleCmd.MarkFlagRequired("output")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a := newApp()
	set, err := a.LoadParams(schedParams)
	if err != nil {
		return err
	}
	res, err := a.Generate(set)
	if err != nil {
		return err
	}

	s := schedule.FromResult(res)
	if err := s.SaveXLSX(schedOutput); err != nil {
		return err
	}
	printSchedule(s)
	return nil
}

func printSchedule(s schedule.Schedule) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Mark\tØ (mm)\tGrade\tCount\tLength (mm)\tTotal (m)\tMass (kg)\t")
	for _, r := range s.Rows {
		fmt.Fprintf(w, "%d\t%.0f\t%s\t%d\t%.0f\t%.2f\t%.2f\t\n",
			r.Mark, r.Diameter, r.SteelGrade, r.Count, r.Length, r.Total, r.Mass)
	}
	fmt.Fprintf(w, "Total\t\t\t%d\t\t\t%.2f\t\n", s.Count(), s.Mass())
	w.Flush()
}
