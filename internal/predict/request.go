package predict

// BuildingRequest is the eleven-parameter building descriptor the prediction
// service expects. Field names match the service's JSON schema.
type BuildingRequest struct {
	NumFloors        float64 `json:"numFloors"`
	FloorHeight      float64 `json:"floorHeight"` // m
	NumBeams         int     `json:"numBeams"`
	NumColumns       int     `json:"numColumns"`
	BeamSection      float64 `json:"beamSection"`      // cm
	ColumnSection    float64 `json:"columnSection"`    // cm
	ConcreteStrength float64 `json:"concreteStrength"` // MPa
	SteelGrade       float64 `json:"steelGrade"`       // MPa
	WindLoad         float64 `json:"windLoad"`         // kN/m2
	LiveLoad         float64 `json:"liveLoad"`         // kN/m2
	DeadLoad         float64 `json:"deadLoad"`         // kN/m2
}

type bound struct {
	field    string
	min, max float64
	value    func(BuildingRequest) float64
}

var bounds = []bound{
	{"numFloors", 1, 50, func(r BuildingRequest) float64 { return r.NumFloors }},
	{"floorHeight", 2.5, 6.0, func(r BuildingRequest) float64 { return r.FloorHeight }},
	{"numBeams", 10, 500, func(r BuildingRequest) float64 { return float64(r.NumBeams) }},
	{"numColumns", 4, 200, func(r BuildingRequest) float64 { return float64(r.NumColumns) }},
	{"beamSection", 20, 100, func(r BuildingRequest) float64 { return r.BeamSection }},
	{"columnSection", 30, 150, func(r BuildingRequest) float64 { return r.ColumnSection }},
	{"concreteStrength", 20, 90, func(r BuildingRequest) float64 { return r.ConcreteStrength }},
	{"steelGrade", 235, 460, func(r BuildingRequest) float64 { return r.SteelGrade }},
	{"windLoad", 0.5, 3.0, func(r BuildingRequest) float64 { return r.WindLoad }},
	{"liveLoad", 1.5, 5.0, func(r BuildingRequest) float64 { return r.LiveLoad }},
	{"deadLoad", 3.0, 8.0, func(r BuildingRequest) float64 { return r.DeadLoad }},
}

// MinimumRequest returns a request with every field at its lower bound.
func MinimumRequest() BuildingRequest {
	return BuildingRequest{
		NumFloors: 1, FloorHeight: 2.5, NumBeams: 10, NumColumns: 4,
		BeamSection: 20, ColumnSection: 30, ConcreteStrength: 20, SteelGrade: 235,
		WindLoad: 0.5, LiveLoad: 1.5, DeadLoad: 3.0,
	}
}

// Validate returns a *ValidationError for the first field outside its range.
// Unset fields are zero and therefore below every lower bound.
func (r BuildingRequest) Validate() error {
	for _, b := range bounds {
		v := b.value(r)
		if v < b.min || v > b.max {
			return &ValidationError{Field: b.field, Value: v, Min: b.min, Max: b.max}
		}
	}
	return nil
}
