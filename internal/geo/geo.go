// Package geo provides pure geodesy primitives: great-circle distance,
// rectangle containment and bounding-box accumulation.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees with an optional altitude in meters.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
	Alt float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"`
}

// Finite reports whether latitude and longitude are both finite numbers.
// Geodesy functions produce NaN on non-finite input, callers must guard.
func (p Point) Finite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Bounds is an axis-aligned rectangle in degrees.
// South <= North and West <= East; rectangles wrapping the antimeridian
// are not supported.
type Bounds struct {
	North float64 `json:"north" yaml:"north"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east" yaml:"east"`
	West  float64 `json:"west" yaml:"west"`
}

// NewBounds returns a degenerate rectangle containing only the given point.
func NewBounds(lat, lng float64) Bounds {
	return Bounds{North: lat, South: lat, East: lng, West: lng}
}

// Contains reports whether the coordinate lies inside the rectangle,
// boundaries included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// Center returns the rectangle midpoint.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.North + b.South) / 2,
		Lng: (b.East + b.West) / 2,
	}
}

// Extend grows the rectangle so it includes the given coordinate.
func (b *Bounds) Extend(lat, lng float64) {
	if lat > b.North {
		b.North = lat
	}
	if lat < b.South {
		b.South = lat
	}
	if lng > b.East {
		b.East = lng
	}
	if lng < b.West {
		b.West = lng
	}
}

// Clamp returns the nearest coordinate inside the rectangle.
func (b Bounds) Clamp(lat, lng float64) (float64, float64) {
	lat = math.Min(math.Max(lat, b.South), b.North)
	lng = math.Min(math.Max(lng, b.West), b.East)
	return lat, lng
}

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates on a sphere of radius EarthRadiusKm.
//
// The formula is symmetric and returns exactly zero for identical points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	a := sinLat*sinLat +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLng*sinLng

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}
