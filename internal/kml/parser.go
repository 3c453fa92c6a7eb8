// Package kml parses and produces KML geographic markup and its KMZ
// zip-compressed container.
package kml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/infratel/telemap/internal/geo"
	"github.com/infratel/telemap/internal/placemark"
)

// Skipped records one placemark element the parser dropped and why.
type Skipped struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Outcome is the result of parsing a document: the records that parsed,
// the elements that were skipped, and the aggregate bounding box of the
// parsed coordinates (nil when no record parsed).
type Outcome struct {
	Records placemark.Collection `json:"records"`
	Skipped []Skipped            `json:"skipped,omitempty"`
	Bounds  *geo.Bounds          `json:"bounds,omitempty"`
}

// Parse extracts placemark records from a KML document.
//
// A malformed document is a hard error. A malformed individual placemark
// (missing coordinates, fewer than two coordinate tokens, non-numeric
// tokens) is skipped with a recorded reason so one bad record cannot
// block an import. Malformed extended-data pairs are omitted from the
// record, never fatal.
func Parse(doc string, kind placemark.Kind) (*Outcome, error) {
	root, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing kml document: %w", err)
	}

	out := &Outcome{}

	for i, node := range xmlquery.Find(root, "//Placemark") {
		name := childText(node, "name")
		if name == "" {
			name = fmt.Sprintf("%s_%d", kind, i)
		}

		coordNode := xmlquery.FindOne(node, "Point/coordinates")
		if coordNode == nil {
			out.Skipped = append(out.Skipped, Skipped{
				Index: i, Name: name, Reason: "missing Point coordinates",
			})
			continue
		}

		pt, err := parseCoordinates(coordNode.InnerText())
		if err != nil {
			out.Skipped = append(out.Skipped, Skipped{
				Index: i, Name: name, Reason: err.Error(),
			})
			continue
		}

		ext := parseExtendedData(node)

		out.Records = append(out.Records, placemark.Record{
			ID:           placemark.DeriveID(kind, i, ext),
			Name:         name,
			Description:  childText(node, "description"),
			Coordinates:  pt,
			ExtendedData: ext,
			Kind:         kind,
		})

		if out.Bounds == nil {
			b := geo.NewBounds(pt.Lat, pt.Lng)
			out.Bounds = &b
		} else {
			out.Bounds.Extend(pt.Lat, pt.Lng)
		}
	}

	return out, nil
}

// parseCoordinates splits a KML "lng,lat[,alt]" coordinate string.
// At least two numeric tokens are required; a third is the altitude.
func parseCoordinates(raw string) (geo.Point, error) {
	tokens := strings.Split(strings.TrimSpace(raw), ",")
	if len(tokens) < 2 {
		return geo.Point{}, fmt.Errorf("coordinate string %q has fewer than two tokens", strings.TrimSpace(raw))
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(tokens[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude token %q", strings.TrimSpace(tokens[0]))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(tokens[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude token %q", strings.TrimSpace(tokens[1]))
	}

	pt := geo.Point{Lat: lat, Lng: lng}
	if len(tokens) >= 3 {
		// Altitude is optional noise in many producers, a bad token
		// spoils only the altitude, not the record.
		if alt, err := strconv.ParseFloat(strings.TrimSpace(tokens[2]), 64); err == nil {
			pt.Alt = alt
		}
	}

	return pt, nil
}

// parseExtendedData collects Data name/value pairs under the placemark.
// Pairs without a name attribute or a value child are omitted.
func parseExtendedData(node *xmlquery.Node) map[string]string {
	var ext map[string]string

	for _, data := range xmlquery.Find(node, "ExtendedData/Data") {
		key := data.SelectAttr("name")
		if key == "" {
			continue
		}
		value := xmlquery.FindOne(data, "value")
		if value == nil {
			continue
		}
		if ext == nil {
			ext = make(map[string]string)
		}
		ext[key] = value.InnerText()
	}

	return ext
}

func childText(node *xmlquery.Node, name string) string {
	if child := xmlquery.FindOne(node, name); child != nil {
		return strings.TrimSpace(child.InnerText())
	}
	return ""
}
