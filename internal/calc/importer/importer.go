package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	beam "SimStruct/internal/calc/beam"

	"github.com/xuri/excelize/v2"
)

var ErrEmptySheet = errors.New("empty sheet")

// Columns: material, support, load kind, length, width, height, E, load,
// then optional position, yield strength and density.
const minColumns = 8

type Result struct {
	Count   int           `json:"count"`
	Skipped int           `json:"skipped"`
	Results []beam.Result `json:"results"`
}

// Import reads the first sheet of an xlsx workbook and analyses every row
// after the header. Rows that do not parse or validate are skipped.
func Import(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Result{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return Result{}, ErrEmptySheet
	}

	out := Result{Results: []beam.Result{}}
	for _, row := range rows[1:] {
		input, err := ParseRow(row)
		if err != nil || input.Validate() != nil {
			out.Skipped++
			continue
		}
		res := beam.Analyze(input)
		if !res.Finite() {
			out.Skipped++
			continue
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out, nil
}

// ParseRow converts one spreadsheet row into engine input.
func ParseRow(row []string) (beam.Input, error) {
	if len(row) < minColumns {
		return beam.Input{}, fmt.Errorf("bad row: %d columns", len(row))
	}
	nums := make([]float64, 5)
	for i, cell := range row[3:minColumns] {
		v, err := toFloat(cell)
		if err != nil {
			return beam.Input{}, fmt.Errorf("column %d: %w", i+4, err)
		}
		nums[i] = v
	}
	in := beam.Input{
		Geometry: beam.Geometry{LengthM: nums[0], WidthM: nums[1], HeightM: nums[2]},
		Material: beam.MaterialProps{
			Material:       beam.Material(strings.ToUpper(strings.TrimSpace(row[0]))),
			ElasticModulus: nums[3],
		},
		Load: beam.Load{
			Kind:      beam.LoadKind(strings.ToUpper(strings.TrimSpace(row[2]))),
			Magnitude: nums[4],
		},
		Support: beam.SupportKind(strings.ToUpper(strings.TrimSpace(row[1]))),
	}

	opt := func(i int) (*float64, error) {
		if len(row) <= i || strings.TrimSpace(row[i]) == "" {
			return nil, nil
		}
		v, err := toFloat(row[i])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		return &v, nil
	}
	var err error
	if in.Load.PositionM, err = opt(8); err != nil {
		return beam.Input{}, err
	}
	if in.Material.YieldStrength, err = opt(9); err != nil {
		return beam.Input{}, err
	}
	if in.Material.DensityKgM3, err = opt(10); err != nil {
		return beam.Input{}, err
	}
	return in, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
