package region

import "github.com/infratel/telemap/internal/geo"

// India returns the built-in India region used when no configuration
// file provides regions. Bounds cover the mainland rectangle; the
// advisory distance and reference cities match the admin dashboard
// defaults.
func India() *Region {
	return &Region{
		Name:    "india",
		Aliases: []string{"in", "bharat"},
		Bounds: geo.Bounds{
			North: 37.10,
			South: 6.55,
			East:  97.40,
			West:  68.11,
		},
		Center:         geo.Point{Lat: 22.5937, Lng: 78.9629},
		WarnDistanceKm: 1500,
		References: []ReferencePoint{
			{Name: "Delhi", Lat: 28.6139, Lng: 77.2090},
			{Name: "Mumbai", Lat: 19.0760, Lng: 72.8777},
			{Name: "Kolkata", Lat: 22.5726, Lng: 88.3639},
			{Name: "Chennai", Lat: 13.0827, Lng: 80.2707},
			{Name: "Bengaluru", Lat: 12.9716, Lng: 77.5946},
			{Name: "Hyderabad", Lat: 17.3850, Lng: 78.4867},
			{Name: "Ahmedabad", Lat: 23.0225, Lng: 72.5714},
			{Name: "Pune", Lat: 18.5204, Lng: 73.8567},
			{Name: "Jaipur", Lat: 26.9124, Lng: 75.7873},
			{Name: "Lucknow", Lat: 26.8467, Lng: 80.9462},
		},
	}
}
