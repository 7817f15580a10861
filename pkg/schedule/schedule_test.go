package schedule

import (
	"bytes"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/chazu/precast/pkg/beam"
	"github.com/chazu/precast/pkg/kernel/kerneltest"
	"github.com/chazu/precast/pkg/params"
)

func referenceResult(t *testing.T) *beam.Result {
	t.Helper()
	set := params.Set{
		params.Length: 4000, params.Height: 600,
		params.TopWidth: 300, params.TopHeight: 150,
		params.BottomWidth: 400, params.BottomHeight: 150,
		params.MiddleWidth: 250, params.MiddleHeight: 300,
		params.HoleDepth: 100, params.HoleHeight: 300,
		params.AngleX: 0, params.AngleY: 0, params.AngleZ: 0,
		params.ConcreteGrade: 4, params.SteelGrade: 1,
		params.BarDiameter: 16, params.ConcreteCover: 30, params.BarSpacing: 150,
		params.BendingRoller: 4, params.BarHeight: 300, params.HookLength: 200,
		params.BarDepth: 100,
	}
	res, err := beam.New(kerneltest.New()).Generate(set)
	require.NoError(t, err)
	return res
}

func TestMass(t *testing.T) {
	// A 1 m bar of 16 mm weighs about 1.578 kg.
	assert.InDelta(t, 1.5783, Mass(16, 1000), 1e-4)
	assert.Zero(t, Mass(16, 0))
}

func TestFromResult(t *testing.T) {
	res := referenceResult(t)
	s := FromResult(res)
	require.Len(t, s.Rows, 2)

	shape := res.Placements()[0].Placement.Shape
	for i, r := range s.Rows {
		assert.Equal(t, i+1, r.Mark)
		assert.Equal(t, "longitudinal", r.Shape)
		assert.Equal(t, 16.0, r.Diameter)
		assert.Equal(t, "B500B", r.SteelGrade)
		assert.Equal(t, 28, r.Count)
		assert.InDelta(t, shape.Developed, r.Length, 1e-9)
		assert.InDelta(t, 28*shape.Developed/1000, r.Total, 1e-9)
		assert.InDelta(t, Mass(16, 28*shape.Developed), r.Mass, 1e-9)
	}
	assert.Equal(t, 56, s.Count())
	assert.InDelta(t, s.Rows[0].Mass+s.Rows[1].Mass, s.Mass(), 1e-9)
}

func TestFromResultEmpty(t *testing.T) {
	s := FromResult(&beam.Result{})
	assert.Empty(t, s.Rows)
	assert.Zero(t, s.Count())
	assert.Zero(t, s.Mass())
}

func readRows(t *testing.T, f *excelize.File) [][]string {
	t.Helper()
	assert.Equal(t, SheetName, f.GetSheetName(0))
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func parse(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err, "cell %q", s)
	return v
}

func TestWriteXLSX(t *testing.T) {
	s := FromResult(referenceResult(t))

	var buf bytes.Buffer
	require.NoError(t, s.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows := readRows(t, f)
	require.Len(t, rows, 4)
	assert.Equal(t, "Mark", rows[0][0])
	assert.Equal(t, "Mass (kg)", rows[0][7])

	for i, r := range s.Rows {
		got := rows[i+1]
		require.Len(t, got, 8)
		assert.Equal(t, strconv.Itoa(r.Mark), got[0])
		assert.Equal(t, r.SteelGrade, got[3])
		assert.Equal(t, "28", got[4])
		assert.InDelta(t, r.Length, parse(t, got[5]), 0.01)
		assert.InDelta(t, r.Mass, parse(t, got[7]), 0.01)
	}

	total := rows[3]
	assert.Equal(t, "Total", total[0])
	assert.Equal(t, "56", total[4])
	assert.InDelta(t, s.Mass(), parse(t, total[7]), 0.01)
}

func TestSaveXLSX(t *testing.T) {
	s := FromResult(referenceResult(t))
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	require.NoError(t, s.SaveXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows := readRows(t, f)
	require.Len(t, rows, 4)
	assert.False(t, math.IsNaN(parse(t, rows[1][6])))
}
