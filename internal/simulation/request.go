package simulation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	beam "SimStruct/internal/calc/beam"
	"SimStruct/internal/predict"
)

// Request carries the parameters of a create or update call.
type Request struct {
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	BeamLength     float64                 `json:"beam_length"`
	BeamWidth      float64                 `json:"beam_width"`
	BeamHeight     float64                 `json:"beam_height"`
	MaterialType   beam.Material           `json:"material_type"`
	ElasticModulus float64                 `json:"elastic_modulus"`
	Density        *float64                `json:"density,omitempty"`
	YieldStrength  *float64                `json:"yield_strength,omitempty"`
	LoadType       beam.LoadKind           `json:"load_type"`
	LoadMagnitude  float64                 `json:"load_magnitude"`
	LoadPosition   *float64                `json:"load_position,omitempty"`
	SupportType    beam.SupportKind        `json:"support_type"`
	IsPublic       *bool                   `json:"is_public,omitempty"`
	Building       predict.BuildingRequest `json:"building"`
}

// ValidationError reports a request parameter that failed its bound.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks every bound before any computation or network call.
// Building parameters are checked with predict's ranges.
func (r Request) Validate() error {
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		return &ValidationError{"name", "is required"}
	case utf8.RuneCountInString(name) > 100:
		return &ValidationError{"name", "must be at most 100 characters"}
	case utf8.RuneCountInString(r.Description) > 1000:
		return &ValidationError{"description", "must be at most 1000 characters"}
	}

	positive := []struct {
		field string
		v     float64
	}{
		{"beam_length", r.BeamLength},
		{"beam_width", r.BeamWidth},
		{"beam_height", r.BeamHeight},
		{"elastic_modulus", r.ElasticModulus},
		{"load_magnitude", r.LoadMagnitude},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return &ValidationError{p.field, "must be positive"}
		}
	}
	if r.Density != nil && *r.Density <= 0 {
		return &ValidationError{"density", "must be positive"}
	}
	if r.YieldStrength != nil && *r.YieldStrength <= 0 {
		return &ValidationError{"yield_strength", "must be positive"}
	}
	if p := r.LoadPosition; p != nil && (*p < 0 || *p > r.BeamLength) {
		return &ValidationError{"load_position", fmt.Sprintf("must lie in [0, %g]", r.BeamLength)}
	}
	if !r.MaterialType.Valid() {
		return &ValidationError{"material_type", fmt.Sprintf("unknown material %q", r.MaterialType)}
	}
	if !r.LoadType.Valid() {
		return &ValidationError{"load_type", fmt.Sprintf("unknown load type %q", r.LoadType)}
	}
	if !r.SupportType.Valid() {
		return &ValidationError{"support_type", fmt.Sprintf("unknown support type %q", r.SupportType)}
	}
	return r.Building.Validate()
}

// BeamInput returns the engine view of the request.
func (r Request) BeamInput() beam.Input {
	return beam.Input{
		Geometry: beam.Geometry{LengthM: r.BeamLength, WidthM: r.BeamWidth, HeightM: r.BeamHeight},
		Material: beam.MaterialProps{
			Material:       r.MaterialType,
			ElasticModulus: r.ElasticModulus,
			YieldStrength:  r.YieldStrength,
			DensityKgM3:    r.Density,
		},
		Load:    beam.Load{Kind: r.LoadType, Magnitude: r.LoadMagnitude, PositionM: r.LoadPosition},
		Support: r.SupportType,
	}
}

// apply copies the request onto sim. Visibility is kept when not supplied.
func (r Request) apply(sim *Simulation) {
	sim.Name = strings.TrimSpace(r.Name)
	sim.Description = r.Description
	sim.Input = r.BeamInput()
	sim.Building = r.Building
	if r.IsPublic != nil {
		sim.IsPublic = *r.IsPublic
	}
}
