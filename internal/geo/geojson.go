package geo

// GeoJSONFeatureCollection is a standard GeoJSON FeatureCollection,
// consumed by map-layer clients.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature is a single point feature with arbitrary properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
}

// GeoJSONGeometry holds the feature geometry. Coordinates are [Lon, Lat].
type GeoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewPointFeature builds a GeoJSON point feature for the coordinate.
func NewPointFeature(p Point, props map[string]interface{}) GeoJSONFeature {
	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: []float64{p.Lng, p.Lat},
		},
		Properties: props,
	}
}
