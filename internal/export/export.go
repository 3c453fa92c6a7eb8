// Package export encodes placemark collections into interchange formats:
// delimited text, spreadsheet, KML markup and the KMZ archive container.
package export

import (
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	mxml "github.com/tdewolff/minify/v2/xml"

	"github.com/infratel/telemap/internal/kml"
	"github.com/infratel/telemap/internal/placemark"
)

// Format selects an interchange encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatKML  Format = "kml"
	FormatKMZ  Format = "kmz"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatKML:
		return FormatKML, nil
	case FormatKMZ:
		return FormatKMZ, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatKML:
		return "application/vnd.google-earth.kml+xml"
	case FormatKMZ:
		return "application/vnd.google-earth.kmz"
	default:
		return "application/octet-stream"
	}
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// Options tunes the encoders. Minify strips insignificant whitespace
// from XML output and applies to the KML and KMZ formats only.
type Options struct {
	Minify bool
}

// Columns is the canonical column set shared by the tabular encoders.
var Columns = []string{
	"Name", "Type", "Latitude", "Longitude",
	"Description", "Status", "CreatedDate", "LastUpdated",
}

// row maps a record onto the canonical columns.
func row(r placemark.Record) []string {
	return []string{
		r.Name,
		r.Kind.Label(),
		formatFloat(r.Coordinates.Lat),
		formatFloat(r.Coordinates.Lng),
		r.Description,
		r.Extended(placemark.KeyStatus),
		r.Extended(placemark.KeyCreatedDate),
		r.Extended(placemark.KeyLastUpdated),
	}
}

// Encode renders the collection in the requested format. An unknown
// format is an explicit error, never a silent fallback.
func Encode(records placemark.Collection, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(records), nil

	case FormatXLSX:
		return encodeXLSX(records)

	case FormatKML:
		doc := kml.Encode(records)
		if opts.Minify {
			return minifyXML(doc)
		}
		return doc, nil

	case FormatKMZ:
		doc := kml.Encode(records)
		if opts.Minify {
			var err error
			if doc, err = minifyXML(doc); err != nil {
				return nil, err
			}
		}
		return kml.Archive(doc)

	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func minifyXML(doc []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/xml", mxml.Minify)

	out, err := m.Bytes("text/xml", doc)
	if err != nil {
		return nil, fmt.Errorf("minifying document: %w", err)
	}
	return out, nil
}
