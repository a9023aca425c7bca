package autodesign

import (
	"errors"
	"fmt"

	beam "SimStruct/internal/calc/beam"
)

const (
	// DeflectionRatio is the serviceability limit L/DeflectionRatio.
	DeflectionRatio = 250.0

	maxHeightM = 10.0
	toleranceM = 1e-4
)

var ErrNoSection = errors.New("no section height up to 10 m satisfies the limits")

// Input is an engine input whose section height is to be chosen.
type Input struct {
	Geometry struct {
		LengthM float64 `json:"length_m"`
		WidthM  float64 `json:"width_m"`
	} `json:"geometry"`
	Material beam.MaterialProps `json:"material"`
	Load     beam.Load          `json:"load"`
	Support  beam.SupportKind   `json:"support"`
}

type Result struct {
	RequiredHeightM float64     `json:"required_height_m"`
	OKStress        bool        `json:"ok_stress"`
	OKDeflection    bool        `json:"ok_deflection"`
	Analysis        beam.Result `json:"analysis"`
	Notes           string      `json:"notes"`
}

func (in Input) withHeight(h float64) beam.Input {
	return beam.Input{
		Geometry: beam.Geometry{LengthM: in.Geometry.LengthM, WidthM: in.Geometry.WidthM, HeightM: h},
		Material: in.Material,
		Load:     in.Load,
		Support:  in.Support,
	}
}

func satisfies(res beam.Result, length float64) (okStress, okDefl bool) {
	return res.SafetyFactor >= beam.SafeThreshold, res.MaxDeflection <= length/DeflectionRatio
}

// Beam returns the smallest section height, to 0.1 mm, for which the
// safety factor reaches beam.SafeThreshold and deflection stays within
// L/250. Both checks improve monotonically with height.
func Beam(in Input) (Result, error) {
	if err := in.withHeight(1).Validate(); err != nil {
		return Result{}, err
	}
	L := in.Geometry.LengthM
	ok := func(h float64) bool {
		s, d := satisfies(beam.Analyze(in.withHeight(h)), L)
		return s && d
	}
	if !ok(maxHeightM) {
		return Result{}, ErrNoSection
	}

	lo, hi := 0.0, maxHeightM
	for hi-lo > toleranceM {
		mid := (lo + hi) / 2
		if ok(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}

	res := beam.Analyze(in.withHeight(hi))
	okStress, okDefl := satisfies(res, L)
	return Result{
		RequiredHeightM: hi,
		OKStress:        okStress,
		OKDeflection:    okDefl,
		Analysis:        res,
		Notes:           fmt.Sprintf("Auto-sized beam (height selected for safety factor %.1f and L/%.0f).", beam.SafeThreshold, DeflectionRatio),
	}, nil
}
