package beam

import (
	"math"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func baseInput() Input {
	return Input{
		Geometry: Geometry{LengthM: 5, WidthM: 0.3, HeightM: 0.5},
		Material: MaterialProps{
			Material:       Steel,
			ElasticModulus: 200e9,
			YieldStrength:  ptr(250e6),
			DensityKgM3:    ptr(7850),
		},
		Load:    Load{Kind: Point, Magnitude: 10000, PositionM: ptr(2.5)},
		Support: SimplySupported,
	}
}

func near(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestSimplySupportedCentralPoint(t *testing.T) {
	in := baseInput()
	I := RectSection(in.Geometry.WidthM, in.Geometry.HeightM).Inertia
	want := in.Load.Magnitude * math.Pow(5, 3) / (48 * 200e9 * I)

	for _, pos := range []float64{2.5, 2.495, 2.5099} {
		in.Load.PositionM = ptr(pos)
		res := Analyze(in)
		if !near(res.MaxDeflection, want, want*1e-12) {
			t.Errorf("position %.4f: deflection %g, want %g", pos, res.MaxDeflection, want)
		}
	}

	in.Load.PositionM = nil
	if res := Analyze(in); !near(res.MaxDeflection, want, want*1e-12) {
		t.Errorf("default position: deflection %g, want %g", res.MaxDeflection, want)
	}
}

func TestSimplySupportedEccentricPoint(t *testing.T) {
	in := baseInput()
	in.Load.PositionM = ptr(1.0)
	I := RectSection(0.3, 0.5).Inertia
	P, L, a, b := 10000.0, 5.0, 1.0, 4.0

	res := Analyze(in)
	wantDefl := P * a * a * b * b / (3 * 200e9 * I * L)
	if !near(res.MaxDeflection, wantDefl, wantDefl*1e-12) {
		t.Errorf("deflection %g, want %g", res.MaxDeflection, wantDefl)
	}
	if !near(res.MaxBendingMoment, P*a*b/L, 1e-9) {
		t.Errorf("moment %g, want %g", res.MaxBendingMoment, P*a*b/L)
	}
	if !near(res.MaxShearForce, P*b/L, 1e-9) {
		t.Errorf("shear %g, want %g", res.MaxShearForce, P*b/L)
	}
}

func TestSimplySupportedUniform(t *testing.T) {
	for _, kind := range []LoadKind{Uniform, Distributed} {
		in := baseInput()
		in.Load.Kind = kind
		res := Analyze(in)

		P, L := in.Load.Magnitude, in.Geometry.LengthM
		if !near(res.MaxBendingMoment, P*L/8, 1e-9) {
			t.Errorf("%s: moment %g, want %g", kind, res.MaxBendingMoment, P*L/8)
		}
		if !near(res.MaxShearForce, P/2, 1e-9) {
			t.Errorf("%s: shear %g, want %g", kind, res.MaxShearForce, P/2)
		}
	}
}

func TestCantileverPoint(t *testing.T) {
	for _, pos := range []float64{0.5, 2.5, 4.9} {
		in := baseInput()
		in.Support = FixedFree
		in.Load.PositionM = ptr(pos)
		res := Analyze(in)

		if res.MaxShearForce != in.Load.Magnitude {
			t.Errorf("position %.1f: shear %g, want %g", pos, res.MaxShearForce, in.Load.Magnitude)
		}
		if res.MaxBendingMoment != in.Load.Magnitude*in.Geometry.LengthM {
			t.Errorf("position %.1f: moment %g, want %g", pos, res.MaxBendingMoment, in.Load.Magnitude*5)
		}
	}
}

func TestFixedFixed(t *testing.T) {
	in := baseInput()
	in.Support = FixedFixed
	I := RectSection(0.3, 0.5).Inertia

	res := Analyze(in)
	wantDefl := 10000 * math.Pow(5, 3) / (192 * 200e9 * I)
	if !near(res.MaxDeflection, wantDefl, wantDefl*1e-12) {
		t.Errorf("point deflection %g, want %g", res.MaxDeflection, wantDefl)
	}
	if !near(res.MaxBendingMoment, 10000*5.0/8, 1e-9) {
		t.Errorf("point moment %g", res.MaxBendingMoment)
	}

	in.Load.Kind = Distributed
	res = Analyze(in)
	if !near(res.MaxBendingMoment, 10000*5.0/12, 1e-9) {
		t.Errorf("uniform moment %g, want %g", res.MaxBendingMoment, 10000*5.0/12)
	}
	if res.MaxShearForce != 5000 {
		t.Errorf("uniform shear %g, want 5000", res.MaxShearForce)
	}
}

func TestFallbackFormulas(t *testing.T) {
	ref := Analyze(baseInput())

	for _, s := range []SupportKind{FixedPinned, Continuous, Pinned, SupportKind("ROLLER")} {
		in := baseInput()
		in.Support = s
		if got := Analyze(in); got != ref {
			t.Errorf("support %s: result differs from simply supported", s)
		}
	}
	for _, k := range []LoadKind{Moment, Triangular, Trapezoidal} {
		in := baseInput()
		in.Load.Kind = k
		if got := Analyze(in); got != ref {
			t.Errorf("load %s: result differs from point load", k)
		}
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		support SupportKind
		load    LoadKind
		set     FormulaSet
		class   LoadClass
	}{
		{SimplySupported, Point, SimplySupportedSet, PointClass},
		{SimplySupported, Uniform, SimplySupportedSet, UniformClass},
		{FixedFree, Distributed, CantileverSet, UniformClass},
		{FixedFixed, Triangular, FixedFixedSet, PointClass},
		{Pinned, Trapezoidal, SimplySupportedSet, PointClass},
		{Continuous, Uniform, SimplySupportedSet, UniformClass},
		{"", "", SimplySupportedSet, PointClass},
	}
	for _, tt := range tests {
		t.Run(string(tt.support)+"/"+string(tt.load), func(t *testing.T) {
			set, class := Dispatch(tt.support, tt.load)
			if set != tt.set || class != tt.class {
				t.Errorf("got (%s, %s), want (%s, %s)", set, class, tt.set, tt.class)
			}
		})
	}
}

func TestSafetyFactorDecreasesWithLoad(t *testing.T) {
	in := baseInput()
	prev := math.Inf(1)
	for _, p := range []float64{1e3, 1e4, 1e5, 1e6} {
		in.Load.Magnitude = p
		sf := Analyze(in).SafetyFactor
		if sf >= prev {
			t.Errorf("load %g: safety factor %g not below %g", p, sf, prev)
		}
		prev = sf
	}
}

func TestUnsafeDesignDetection(t *testing.T) {
	in := baseInput()
	in.Geometry.WidthM = 0.05
	in.Geometry.HeightM = 0.05

	in.Load.Magnitude = 1000
	low := Analyze(in)
	if !low.IsSafe || low.SafetyFactor < SafeThreshold {
		t.Fatalf("1 kN: expected safe, got sf=%g", low.SafetyFactor)
	}

	in.Load.Magnitude = 1e6
	high := Analyze(in)
	if high.IsSafe || high.SafetyFactor >= SafeThreshold {
		t.Fatalf("1000 kN: expected unsafe, got sf=%g", high.SafetyFactor)
	}
	if !strings.Contains(high.Recommendations, "CRITICAL") {
		t.Errorf("expected critical advice, got %q", high.Recommendations)
	}
}

func TestWeight(t *testing.T) {
	res := Analyze(baseInput())
	if !near(res.Weight, 5887.5, 1.0) {
		t.Errorf("weight %g, want 5887.5", res.Weight)
	}

	in := baseInput()
	in.Material.DensityKgM3 = nil
	in.Material.Material = Wood
	if w := Analyze(in).Weight; !near(w, 0.3*0.5*5*600, 1e-9) {
		t.Errorf("wood default density weight %g", w)
	}
}

func TestStressAndDerivedValues(t *testing.T) {
	res := Analyze(baseInput())
	sec := RectSection(0.3, 0.5)
	wantStress := res.MaxBendingMoment * sec.YMax / sec.Inertia
	if !near(res.MaxStress, wantStress, 1e-6) {
		t.Errorf("stress %g, want %g", res.MaxStress, wantStress)
	}
	if !near(res.SafetyFactor, 250e6/wantStress, 1e-9) {
		t.Errorf("safety factor %g", res.SafetyFactor)
	}
	if !near(res.CriticalLoad, 10000*res.SafetyFactor, 1e-6) {
		t.Errorf("critical load %g", res.CriticalLoad)
	}
	if res.NaturalFrequency <= 0 {
		t.Errorf("natural frequency %g should be positive", res.NaturalFrequency)
	}
	if res.Recommendations == "" {
		t.Error("recommendations should not be empty")
	}
}

func TestDegenerateInputsAreNotFinite(t *testing.T) {
	in := baseInput()
	in.Load.PositionM = ptr(0)
	if Analyze(in).Finite() {
		t.Error("load on the support should give an infinite safety factor")
	}

	in = baseInput()
	in.Geometry.LengthM = 0
	if Analyze(in).Finite() {
		t.Error("zero span should not produce finite values")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr bool
	}{
		{"valid", func(*Input) {}, false},
		{"zero length", func(in *Input) { in.Geometry.LengthM = 0 }, true},
		{"negative height", func(in *Input) { in.Geometry.HeightM = -1 }, true},
		{"zero load", func(in *Input) { in.Load.Magnitude = 0 }, true},
		{"position past span", func(in *Input) { in.Load.PositionM = ptr(5.1) }, true},
		{"position at support", func(in *Input) { in.Load.PositionM = ptr(0) }, false},
		{"unknown material", func(in *Input) { in.Material.Material = "GLASS" }, true},
		{"unknown support", func(in *Input) { in.Support = "ROLLER" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)
			if err := in.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
