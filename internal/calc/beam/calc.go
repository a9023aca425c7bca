package beam

import (
	"fmt"
	"math"
)

// SafeThreshold is the minimum safety factor a design must reach to be safe.
const SafeThreshold = 1.5

type Geometry struct {
	LengthM float64 `json:"length_m"`
	WidthM  float64 `json:"width_m"`
	HeightM float64 `json:"height_m"`
}

type MaterialProps struct {
	Material       Material `json:"material"`
	ElasticModulus float64  `json:"elastic_modulus_pa"`
	YieldStrength  *float64 `json:"yield_strength_pa,omitempty"`
	DensityKgM3    *float64 `json:"density_kg_m3,omitempty"`
}

type Load struct {
	Kind      LoadKind `json:"kind"`
	Magnitude float64  `json:"magnitude_n"`
	PositionM *float64 `json:"position_m,omitempty"`
}

type Input struct {
	Geometry Geometry      `json:"geometry"`
	Material MaterialProps `json:"material"`
	Load     Load          `json:"load"`
	Support  SupportKind   `json:"support"`
}

// Result is the canonical analysis record. Values produced by the engine are SI;
// values copied from a prediction keep the prediction's units (mm, MPa).
type Result struct {
	MaxDeflection    float64 `json:"max_deflection"`
	MaxBendingMoment float64 `json:"max_bending_moment"`
	MaxShearForce    float64 `json:"max_shear_force"`
	MaxStress        float64 `json:"max_stress"`
	SafetyFactor     float64 `json:"safety_factor"`
	IsSafe           bool    `json:"is_safe"`
	Recommendations  string  `json:"recommendations"`
	NaturalFrequency float64 `json:"natural_frequency"`
	CriticalLoad     float64 `json:"critical_load"`
	Weight           float64 `json:"weight"`
}

// Finite reports whether every numeric field is a finite number. Degenerate
// inputs (zero span, load on a support) propagate Inf/NaN through the formulas.
func (r Result) Finite() bool {
	for _, v := range []float64{
		r.MaxDeflection, r.MaxBendingMoment, r.MaxShearForce, r.MaxStress,
		r.SafetyFactor, r.NaturalFrequency, r.CriticalLoad, r.Weight,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ResolvePosition returns the load position, defaulting to midspan.
func ResolvePosition(explicit *float64, length float64) float64 {
	if explicit != nil {
		return *explicit
	}
	return length / 2
}

// Validate checks the bounds the HTTP and CLI front ends enforce before
// calling Analyze. Analyze itself does not validate.
func (in Input) Validate() error {
	g := in.Geometry
	if g.LengthM <= 0 || g.WidthM <= 0 || g.HeightM <= 0 {
		return fmt.Errorf("invalid geometry: length, width and height must be positive")
	}
	if in.Material.ElasticModulus <= 0 {
		return fmt.Errorf("invalid elastic modulus")
	}
	if !in.Material.Material.Valid() {
		return fmt.Errorf("unknown material %q", in.Material.Material)
	}
	if !in.Load.Kind.Valid() {
		return fmt.Errorf("unknown load kind %q", in.Load.Kind)
	}
	if !in.Support.Valid() {
		return fmt.Errorf("unknown support kind %q", in.Support)
	}
	if in.Load.Magnitude <= 0 {
		return fmt.Errorf("invalid load magnitude")
	}
	if p := in.Load.PositionM; p != nil && (*p < 0 || *p > g.LengthM) {
		return fmt.Errorf("load position %.3f outside [0, %.3f]", *p, g.LengthM)
	}
	return nil
}

// Analyze evaluates closed-form beam theory for the given configuration.
func Analyze(in Input) Result {
	L := in.Geometry.LengthM
	E := in.Material.ElasticModulus
	P := in.Load.Magnitude
	a := ResolvePosition(in.Load.PositionM, L)

	sec := RectSection(in.Geometry.WidthM, in.Geometry.HeightM)
	resp := lookupFormula(in.Support, in.Load.Kind)(P, L, E, sec.Inertia, a)

	stress := (resp.moment * sec.YMax) / sec.Inertia
	yield := ResolveYieldStrength(in.Material.Material, in.Material.YieldStrength)
	density := ResolveDensity(in.Material.Material, in.Material.DensityKgM3)
	sf := yield / stress

	return Result{
		MaxDeflection:    resp.deflection,
		MaxBendingMoment: resp.moment,
		MaxShearForce:    resp.shear,
		MaxStress:        stress,
		SafetyFactor:     sf,
		IsSafe:           sf >= SafeThreshold,
		Recommendations:  Recommend(sf, resp.deflection, L, stress, yield),
		NaturalFrequency: NaturalFrequency(E, sec.Inertia, density, sec.Area, L),
		CriticalLoad:     P * sf,
		Weight:           sec.Area * L * density,
	}
}

// NaturalFrequency returns the first-mode approximation in Hz.
func NaturalFrequency(e, i, density, area, length float64) float64 {
	omega := math.Pow(math.Pi, 2) * math.Sqrt((e*i)/(density*area*math.Pow(length, 4)))
	return omega / (2 * math.Pi)
}
