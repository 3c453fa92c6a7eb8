package kml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/infratel/telemap/internal/placemark"
)

// ArchiveEntryName is the single entry a KMZ container holds.
const ArchiveEntryName = "doc.kml"

const header = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
<Style id="popStyle"><IconStyle><color>ff0000ff</color><scale>1.1</scale><Icon><href>http://maps.google.com/mapfiles/kml/paddle/red-circle.png</href></Icon></IconStyle></Style>
<Style id="subPopStyle"><IconStyle><color>ffff0000</color><scale>0.9</scale><Icon><href>http://maps.google.com/mapfiles/kml/paddle/blu-circle.png</href></Icon></IconStyle></Style>
`

// escaper applies XML escaping for text and attribute content.
// Ampersand is handled in the same pass, so already-escaped input is not
// double-escaped beyond its own ampersands.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Encode renders the collection as a canonical KML document: a Document
// root with one Style per placemark kind followed by one Placemark per
// record, in input order.
func Encode(records placemark.Collection) []byte {
	var buf bytes.Buffer
	buf.WriteString(header)

	for _, r := range records {
		writePlacemark(&buf, r)
	}

	buf.WriteString("</Document>\n</kml>\n")
	return buf.Bytes()
}

func writePlacemark(buf *bytes.Buffer, r placemark.Record) {
	buf.WriteString("<Placemark>\n")

	fmt.Fprintf(buf, "<name>%s</name>\n", escaper.Replace(r.Name))
	if r.Description != "" {
		fmt.Fprintf(buf, "<description>%s</description>\n", escaper.Replace(r.Description))
	}
	fmt.Fprintf(buf, "<styleUrl>#%s</styleUrl>\n", styleID(r.Kind))

	if len(r.ExtendedData) > 0 {
		keys := make([]string, 0, len(r.ExtendedData))
		for k := range r.ExtendedData {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString("<ExtendedData>\n")
		for _, k := range keys {
			fmt.Fprintf(buf, "<Data name=\"%s\"><value>%s</value></Data>\n",
				escaper.Replace(k), escaper.Replace(r.ExtendedData[k]))
		}
		buf.WriteString("</ExtendedData>\n")
	}

	// KML coordinate order is longitude first.
	fmt.Fprintf(buf, "<Point><coordinates>%s,%s,%s</coordinates></Point>\n",
		formatFloat(r.Coordinates.Lng),
		formatFloat(r.Coordinates.Lat),
		formatFloat(r.Coordinates.Alt))

	buf.WriteString("</Placemark>\n")
}

func styleID(k placemark.Kind) string {
	if k == placemark.KindSubPOP {
		return "subPopStyle"
	}
	return "popStyle"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EncodeArchive wraps the KML rendering of the collection as the single
// doc.kml entry of a KMZ zip container.
func EncodeArchive(records placemark.Collection) ([]byte, error) {
	return Archive(Encode(records))
}

// Archive wraps an already rendered KML document as a KMZ container.
func Archive(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(ArchiveEntryName)
	if err != nil {
		return nil, fmt.Errorf("creating %s entry: %w", ArchiveEntryName, err)
	}
	if _, err := w.Write(doc); err != nil {
		return nil, fmt.Errorf("writing %s entry: %w", ArchiveEntryName, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}

	return buf.Bytes(), nil
}
