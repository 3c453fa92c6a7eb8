// Package region classifies coordinates against configured geographic
// regions, producing structured verdicts with distance diagnostics.
package region

import (
	"fmt"

	"github.com/infratel/telemap/internal/geo"
)

// ReferencePoint is a named location used to enrich verdict messages.
// It never gates validity.
type ReferencePoint struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lng  float64 `yaml:"lng" json:"lng"`
}

// Region is a named rectangle with a nominal center, a soft warning
// distance and reference locations for diagnostics.
type Region struct {
	Name           string           `yaml:"name" json:"name"`
	Aliases        []string         `yaml:"aliases,omitempty" json:"-"`
	Bounds         geo.Bounds       `yaml:"bounds" json:"bounds"`
	Center         geo.Point        `yaml:"center,omitempty" json:"center"`
	WarnDistanceKm float64          `yaml:"warn_distance_km,omitempty" json:"warn_distance_km,omitempty"`
	References     []ReferencePoint `yaml:"references,omitempty" json:"-"`
}

// ApplyDefaults fills the nominal center from the bounds midpoint when
// the configuration leaves it unset.
func (r *Region) ApplyDefaults() {
	if r.Center == (geo.Point{}) {
		r.Center = r.Bounds.Center()
	}
}

// Options tunes validation behavior.
type Options struct {
	// StrictMode turns the far-from-center advisory into a rejection.
	StrictMode bool
	// ShowWarnings enables the far-from-center advisory.
	ShowWarnings bool
	// AllowNearBorder accepts points outside the rectangle that are
	// within BorderToleranceKm of it.
	AllowNearBorder   bool
	BorderToleranceKm float64
}

// Verdict is the outcome of a validation call. Out-of-region is a
// business outcome carried in the value, never an error.
type Verdict struct {
	Valid           bool   `json:"isValid"`
	Message         string `json:"message,omitempty"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// ValidatePoint classifies a single coordinate against the region.
// Non-finite coordinates are an invalid verdict, not a panic.
func (r *Region) ValidatePoint(p geo.Point, opts Options) Verdict {
	if !p.Finite() {
		return Verdict{
			Valid:   false,
			Message: "coordinates are not finite numbers",
		}
	}

	if !r.Bounds.Contains(p.Lat, p.Lng) {
		if opts.AllowNearBorder && opts.BorderToleranceKm > 0 {
			lat, lng := r.Bounds.Clamp(p.Lat, p.Lng)
			if d := geo.HaversineKm(p.Lat, p.Lng, lat, lng); d <= opts.BorderToleranceKm {
				return Verdict{
					Valid:   true,
					Message: fmt.Sprintf("coordinates are %.1f km outside the %s border, within tolerance", d, r.Name),
				}
			}
		}

		v := Verdict{
			Valid:   false,
			Message: fmt.Sprintf("coordinates (%.4f, %.4f) are outside the %s region", p.Lat, p.Lng, r.Name),
		}
		if ref, d, ok := r.nearestReference(p); ok {
			v.SuggestedAction = fmt.Sprintf("nearest reference location is %s, %.1f km away", ref.Name, d)
		}
		return v
	}

	if opts.ShowWarnings && r.WarnDistanceKm > 0 {
		if d := geo.HaversineKm(p.Lat, p.Lng, r.Center.Lat, r.Center.Lng); d > r.WarnDistanceKm {
			msg := fmt.Sprintf("coordinates are %.0f km from the %s center, beyond the %.0f km advisory distance",
				d, r.Name, r.WarnDistanceKm)
			if opts.StrictMode {
				return Verdict{Valid: false, Message: msg}
			}

			v := Verdict{Valid: true, Message: msg}
			if ref, refD, ok := r.nearestReference(p); ok {
				v.SuggestedAction = fmt.Sprintf("nearest reference location is %s, %.1f km away", ref.Name, refD)
			}
			return v
		}
	}

	return Verdict{Valid: true}
}

// ValidateSequence classifies an ordered coordinate sequence, stopping
// at the first invalid point and reporting its 1-based ordinal.
func (r *Region) ValidateSequence(points []geo.Point, opts Options) Verdict {
	for i, p := range points {
		if v := r.ValidatePoint(p, opts); !v.Valid {
			v.Message = fmt.Sprintf("point %d: %s", i+1, v.Message)
			return v
		}
	}
	return Verdict{Valid: true}
}

// nearestReference folds over the reference list keeping the minimum
// distance; ties keep the first encountered.
func (r *Region) nearestReference(p geo.Point) (ReferencePoint, float64, bool) {
	if len(r.References) == 0 {
		return ReferencePoint{}, 0, false
	}

	best := r.References[0]
	bestD := geo.HaversineKm(p.Lat, p.Lng, best.Lat, best.Lng)
	for _, ref := range r.References[1:] {
		if d := geo.HaversineKm(p.Lat, p.Lng, ref.Lat, ref.Lng); d < bestD {
			best, bestD = ref, d
		}
	}

	return best, bestD, true
}

// Resolver maps region names and aliases to their region, the way map
// names resolve in the serving layer.
type Resolver map[string]*Region

// NewResolver indexes regions by name and aliases.
func NewResolver(regions []*Region) Resolver {
	res := make(Resolver, len(regions))
	for _, r := range regions {
		res[r.Name] = r
		for _, alias := range r.Aliases {
			res[alias] = r
		}
	}
	return res
}

// Lookup resolves a name or alias.
func (res Resolver) Lookup(name string) (*Region, bool) {
	r, ok := res[name]
	return r, ok
}
