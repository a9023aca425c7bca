package beam

type Material string

const (
	Steel     Material = "STEEL"
	Concrete  Material = "CONCRETE"
	Wood      Material = "WOOD"
	Aluminum  Material = "ALUMINUM"
	Composite Material = "COMPOSITE"
)

type materialDefaults struct {
	yieldPa float64
	density float64 // kg/m3
}

var defaults = map[Material]materialDefaults{
	Steel:     {yieldPa: 250e6, density: 7850},
	Concrete:  {yieldPa: 30e6, density: 2400}, // compressive
	Aluminum:  {yieldPa: 280e6, density: 2700},
	Wood:      {yieldPa: 40e6, density: 600},
	Composite: {yieldPa: 200e6, density: 1600},
}

// Valid reports whether m is one of the known categories.
func (m Material) Valid() bool {
	_, ok := defaults[m]
	return ok
}

func lookupDefaults(m Material) materialDefaults {
	if d, ok := defaults[m]; ok {
		return d
	}
	return defaults[Steel]
}

// DefaultYieldStrength returns the yield strength in Pa used when none is supplied.
// Unknown categories resolve to steel.
func DefaultYieldStrength(m Material) float64 { return lookupDefaults(m).yieldPa }

// DefaultDensity returns the density in kg/m3 used when none is supplied.
func DefaultDensity(m Material) float64 { return lookupDefaults(m).density }

// ResolveYieldStrength returns explicit when set, the category default otherwise.
func ResolveYieldStrength(m Material, explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	return DefaultYieldStrength(m)
}

// ResolveDensity returns explicit when set, the category default otherwise.
func ResolveDensity(m Material, explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	return DefaultDensity(m)
}
