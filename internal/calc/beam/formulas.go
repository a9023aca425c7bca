package beam

import "math"

type LoadKind string

const (
	Point       LoadKind = "POINT"
	Distributed LoadKind = "DISTRIBUTED"
	Uniform     LoadKind = "UNIFORM"
	Moment      LoadKind = "MOMENT"
	Triangular  LoadKind = "TRIANGULAR"
	Trapezoidal LoadKind = "TRAPEZOIDAL"
)

type SupportKind string

const (
	SimplySupported SupportKind = "SIMPLY_SUPPORTED"
	FixedFree       SupportKind = "FIXED_FREE" // cantilever
	FixedFixed      SupportKind = "FIXED_FIXED"
	FixedPinned     SupportKind = "FIXED_PINNED"
	Continuous      SupportKind = "CONTINUOUS"
	Pinned          SupportKind = "PINNED"
)

// LoadClass is the formula family a load kind is evaluated with.
type LoadClass string

const (
	PointClass   LoadClass = "point"
	UniformClass LoadClass = "uniform"
)

// FormulaSet is the closed-form solution family a support kind is evaluated with.
type FormulaSet string

const (
	SimplySupportedSet FormulaSet = "simply_supported"
	CantileverSet      FormulaSet = "cantilever"
	FixedFixedSet      FormulaSet = "fixed_fixed"
)

// Moment, triangular and trapezoidal loads have no formulas of their own
// and are evaluated as point loads.
var loadClasses = map[LoadKind]LoadClass{
	Point:       PointClass,
	Distributed: UniformClass,
	Uniform:     UniformClass,
	Moment:      PointClass,
	Triangular:  PointClass,
	Trapezoidal: PointClass,
}

// Supports without dedicated formulas are evaluated as simply supported.
var supportSets = map[SupportKind]FormulaSet{
	SimplySupported: SimplySupportedSet,
	FixedFree:       CantileverSet,
	FixedFixed:      FixedFixedSet,
	FixedPinned:     SimplySupportedSet,
	Continuous:      SimplySupportedSet,
	Pinned:          SimplySupportedSet,
}

func (k LoadKind) Valid() bool {
	_, ok := loadClasses[k]
	return ok
}

func (k SupportKind) Valid() bool {
	_, ok := supportSets[k]
	return ok
}

// Dispatch maps a (support, load) pair to the formula set and load class used
// to evaluate it. Unknown kinds fall back to simply supported / point.
func Dispatch(support SupportKind, load LoadKind) (FormulaSet, LoadClass) {
	set, ok := supportSets[support]
	if !ok {
		set = SimplySupportedSet
	}
	class, ok := loadClasses[load]
	if !ok {
		class = PointClass
	}
	return set, class
}

type response struct {
	deflection float64
	moment     float64
	shear      float64
}

// p load (N), l span (m), e modulus (Pa), i inertia (m4), a load position (m).
type formula func(p, l, e, i, a float64) response

type formulaKey struct {
	set   FormulaSet
	class LoadClass
}

var formulas = map[formulaKey]formula{
	{SimplySupportedSet, UniformClass}: simplySupportedUniform,
	{SimplySupportedSet, PointClass}:   simplySupportedPoint,
	{CantileverSet, UniformClass}:      cantileverUniform,
	{CantileverSet, PointClass}:        cantileverPoint,
	{FixedFixedSet, UniformClass}:      fixedFixedUniform,
	{FixedFixedSet, PointClass}:        fixedFixedPoint,
}

func lookupFormula(support SupportKind, load LoadKind) formula {
	set, class := Dispatch(support, load)
	return formulas[formulaKey{set, class}]
}

// midspanTolerance is how close (m) a point load must be to L/2 to use the central formula.
const midspanTolerance = 0.01

func simplySupportedUniform(p, l, e, i, _ float64) response {
	w := p / l
	return response{
		deflection: (5 * w * math.Pow(l, 4)) / (384 * e * i),
		moment:     (w * math.Pow(l, 2)) / 8,
		shear:      (w * l) / 2,
	}
}

func simplySupportedPoint(p, l, e, i, a float64) response {
	b := l - a
	var deflection float64
	if math.Abs(a-l/2) < midspanTolerance {
		deflection = (p * math.Pow(l, 3)) / (48 * e * i)
	} else {
		deflection = (p * math.Pow(a, 2) * math.Pow(b, 2)) / (3 * e * i * l)
	}
	return response{
		deflection: deflection,
		moment:     (p * a * b) / l,
		shear:      math.Max(p*b/l, p*a/l),
	}
}

// Cantilever loads act at the free end regardless of the supplied position.
func cantileverUniform(p, l, e, i, _ float64) response {
	w := p / l
	return response{
		deflection: (w * math.Pow(l, 4)) / (8 * e * i),
		moment:     (w * math.Pow(l, 2)) / 2,
		shear:      w * l,
	}
}

func cantileverPoint(p, l, e, i, _ float64) response {
	return response{
		deflection: (p * math.Pow(l, 3)) / (3 * e * i),
		moment:     p * l,
		shear:      p,
	}
}

// Fixed-fixed shear is P/2 for every load class (central loading).
func fixedFixedUniform(p, l, e, i, _ float64) response {
	w := p / l
	return response{
		deflection: (w * math.Pow(l, 4)) / (384 * e * i),
		moment:     (w * math.Pow(l, 2)) / 12,
		shear:      p / 2,
	}
}

func fixedFixedPoint(p, l, e, i, _ float64) response {
	return response{
		deflection: (p * math.Pow(l, 3)) / (192 * e * i),
		moment:     (p * l) / 8,
		shear:      p / 2,
	}
}
