// Package schedule derives a bar bending schedule from the placements of a
// generated beam and exports it as an XLSX workbook.
package schedule

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/chazu/precast/pkg/beam"
	"github.com/chazu/precast/pkg/params"
)

// SteelDensity is the density of reinforcing steel in kg/m³.
const SteelDensity = 7850.0

// SheetName is the worksheet the schedule is written to.
const SheetName = "Bar schedule"

// Row is one line of the schedule: all bars of one placement.
type Row struct {
	Mark       int
	Shape      string
	Diameter   float64 // mm
	SteelGrade string
	Count      int
	Length     float64 // developed length of one bar, mm
	Total      float64 // all bars, m
	Mass       float64 // all bars, kg
}

// Schedule is the bar list of one beam.
type Schedule struct {
	Rows []Row
}

// Mass returns the mass in kg of a bar of the given diameter and length,
// both in mm.
func Mass(diameter, length float64) float64 {
	area := math.Pi * diameter * diameter / 4
	return area * length * 1e-9 * SteelDensity
}

// FromResult lists every placement of res in element order.
func FromResult(res *beam.Result) Schedule {
	var s Schedule
	for _, e := range res.Placements() {
		p := e.Placement
		props := p.Shape.Properties
		s.Rows = append(s.Rows, Row{
			Mark:       p.Mark,
			Shape:      props.ShapeType.String(),
			Diameter:   props.Diameter,
			SteelGrade: params.SteelGradeName(props.SteelGrade),
			Count:      p.Count,
			Length:     p.Shape.Length(),
			Total:      p.TotalLength() / 1000,
			Mass:       Mass(props.Diameter, p.TotalLength()),
		})
	}
	return s
}

// Count is the number of bars in the schedule.
func (s Schedule) Count() int {
	n := 0
	for _, r := range s.Rows {
		n += r.Count
	}
	return n
}

// Mass is the steel mass of the schedule in kg.
func (s Schedule) Mass() float64 {
	m := 0.0
	for _, r := range s.Rows {
		m += r.Mass
	}
	return m
}

var header = []interface{}{
	"Mark", "Shape", "Diameter (mm)", "Steel grade", "Count",
	"Length (mm)", "Total (m)", "Mass (kg)",
}

// Workbook builds the XLSX workbook: a header, one row per placement and a
// totals row. The caller must Close the file.
func (s Schedule) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := s.fill(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return f, nil
}

func (s Schedule) fill(f *excelize.File) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", "H", 14); err != nil {
		return err
	}

	for i, r := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Mark, r.Shape, r.Diameter, r.SteelGrade, r.Count, r.Length, r.Total, r.Mass}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	last := len(s.Rows) + 2
	cell, err := excelize.CoordinatesToCellName(1, last)
	if err != nil {
		return err
	}
	total := []interface{}{"Total", nil, nil, nil, s.Count(), nil, nil, s.Mass()}
	if err := f.SetSheetRow(SheetName, cell, &total); err != nil {
		return err
	}
	return f.SetRowStyle(SheetName, last, last, bold)
}

// WriteXLSX writes the schedule workbook to w.
func (s Schedule) WriteXLSX(w io.Writer) error {
	f, err := s.Workbook()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveXLSX writes the schedule workbook to path.
func (s Schedule) SaveXLSX(path string) error {
	f, err := s.Workbook()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}
