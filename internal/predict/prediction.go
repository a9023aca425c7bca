package predict

// Prediction is the service's structural response estimate.
type Prediction struct {
	MaxDeflection     float64  `json:"maxDeflection"` // mm
	MaxStress         float64  `json:"maxStress"`     // MPa
	StabilityIndex    *float64 `json:"stabilityIndex"`
	SeismicResistance *float64 `json:"seismicResistance"`
	Status            string   `json:"status"` // Excellent, Bon, Acceptable, Faible
}

type SafetyLevel string

const (
	Excellent  SafetyLevel = "EXCELLENT"
	Good       SafetyLevel = "GOOD"
	Acceptable SafetyLevel = "ACCEPTABLE"
	Poor       SafetyLevel = "POOR"
	Unknown    SafetyLevel = "UNKNOWN"
)

// IsSafe requires both indices to be present and at least 50.
func (p Prediction) IsSafe() bool {
	if p.StabilityIndex == nil || p.SeismicResistance == nil {
		return false
	}
	return *p.StabilityIndex >= 50 && *p.SeismicResistance >= 50
}

// SafetyLevel buckets the mean of the two indices.
func (p Prediction) SafetyLevel() SafetyLevel {
	if p.StabilityIndex == nil || p.SeismicResistance == nil {
		return Unknown
	}
	avg := (*p.StabilityIndex + *p.SeismicResistance) / 2
	switch {
	case avg >= 70:
		return Excellent
	case avg >= 50:
		return Good
	case avg >= 30:
		return Acceptable
	default:
		return Poor
	}
}

func (p Prediction) Stability() float64 {
	if p.StabilityIndex == nil {
		return 0
	}
	return *p.StabilityIndex
}

func (p Prediction) Seismic() float64 {
	if p.SeismicResistance == nil {
		return 0
	}
	return *p.SeismicResistance
}
