// Package placemark defines the canonical unit of geospatial data
// exchanged between the parser, the validators and the exporters.
package placemark

import (
	"fmt"
	"strings"

	"github.com/infratel/telemap/internal/geo"
)

// Kind tags a record with its infrastructure category.
type Kind string

const (
	KindPOP    Kind = "pop"
	KindSubPOP Kind = "subpop"
)

// Label returns the display form of the kind used in exports.
func (k Kind) Label() string {
	switch k {
	case KindSubPOP:
		return "Sub-POP"
	default:
		return "POP"
	}
}

// ParseKind resolves a user-supplied category name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pop":
		return KindPOP, nil
	case "subpop", "sub-pop", "sub_pop":
		return KindSubPOP, nil
	default:
		return "", fmt.Errorf("unknown placemark kind %q", s)
	}
}

// Extended-data keys with a defined meaning for the tabular exports.
// All other keys are carried through untouched.
const (
	KeyUniqueID    = "unique_id"
	KeyStatus      = "status"
	KeyCreatedDate = "created_date"
	KeyLastUpdated = "last_updated"
)

// Record is an immutable named point with free-text description and
// arbitrary string metadata. Consumers only read it.
type Record struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Coordinates  geo.Point         `json:"coordinates"`
	ExtendedData map[string]string `json:"extendedData,omitempty"`
	Kind         Kind              `json:"kind"`
}

// Extended returns the extended-data value for key, or "" when absent.
func (r Record) Extended(key string) string {
	if r.ExtendedData == nil {
		return ""
	}
	return r.ExtendedData[key]
}

// DeriveID picks the record identity: the unique_id extended field when
// present, otherwise "{kind}_{index}" from the record's ordinal position.
func DeriveID(kind Kind, index int, extended map[string]string) string {
	if id := extended[KeyUniqueID]; id != "" {
		return id
	}
	return fmt.Sprintf("%s_%d", kind, index)
}

// Collection is an ordered list of records. Order is "as provided by the
// caller" and must be preserved by every consumer.
type Collection []Record

// Bounds returns the aggregate bounding box of the collection, or false
// when the collection is empty.
func (c Collection) Bounds() (geo.Bounds, bool) {
	if len(c) == 0 {
		return geo.Bounds{}, false
	}

	b := geo.NewBounds(c[0].Coordinates.Lat, c[0].Coordinates.Lng)
	for _, r := range c[1:] {
		b.Extend(r.Coordinates.Lat, r.Coordinates.Lng)
	}
	return b, true
}

// Points returns the coordinate sequence of the collection, in order.
func (c Collection) Points() []geo.Point {
	pts := make([]geo.Point, len(c))
	for i, r := range c {
		pts[i] = r.Coordinates
	}
	return pts
}

// GeoJSON converts the collection to a FeatureCollection for map-layer
// clients. Extended data is flattened into the feature properties.
func (c Collection) GeoJSON() geo.GeoJSONFeatureCollection {
	fc := geo.GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geo.GeoJSONFeature, 0, len(c)),
	}

	for _, r := range c {
		props := map[string]interface{}{
			"id":   r.ID,
			"name": r.Name,
			"type": string(r.Kind),
		}
		if r.Description != "" {
			props["description"] = r.Description
		}
		for k, v := range r.ExtendedData {
			if _, taken := props[k]; !taken {
				props[k] = v
			}
		}
		fc.Features = append(fc.Features, geo.NewPointFeature(r.Coordinates, props))
	}

	return fc
}
