package beam

import "math"

// Section holds the geometric properties of a solid rectangular cross-section.
type Section struct {
	Area    float64 `json:"area_m2"`
	Inertia float64 `json:"inertia_m4"`
	YMax    float64 `json:"y_max_m"`
}

// RectSection derives area, second moment of area (b*h^3/12) and extreme fibre
// distance from width b and height h, both in metres.
func RectSection(b, h float64) Section {
	return Section{
		Area:    b * h,
		Inertia: (b * math.Pow(h, 3)) / 12,
		YMax:    h / 2,
	}
}
