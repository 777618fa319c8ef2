package models

import "math"

// Bounds is a geographic viewport in decimal degrees.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

func (b Bounds) Valid() bool {
	for _, v := range []float64{b.MinLat, b.MaxLat, b.MinLng, b.MaxLng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return false
	}
	return b.MinLat >= -90 && b.MaxLat <= 90 && b.MinLng >= -180 && b.MaxLng <= 180
}

// Contains reports whether a mappable record falls inside the viewport, edges included.
func (b Bounds) Contains(r Record) bool {
	if !r.Mappable() {
		return false
	}
	return r.Latitude >= b.MinLat && r.Latitude <= b.MaxLat &&
		r.Longitude >= b.MinLng && r.Longitude <= b.MaxLng
}
