package kml

import (
	"archive/zip"
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/infratel/telemap/internal/geo"
	"github.com/infratel/telemap/internal/placemark"
)

func sampleCollection() placemark.Collection {
	return placemark.Collection{
		{
			ID:          "pop_0",
			Name:        "Connaught Place",
			Description: "Primary POP",
			Kind:        placemark.KindPOP,
			Coordinates: geo.Point{Lat: 28.613901, Lng: 77.209023},
			ExtendedData: map[string]string{
				placemark.KeyStatus: "active",
				"network_id":        "DL-01",
			},
		},
		{
			ID:          "subpop_1",
			Name:        "Bandra West",
			Kind:        placemark.KindSubPOP,
			Coordinates: geo.Point{Lat: 19.076012, Lng: 72.877655},
		},
	}
}

// TestEncodeStructure verifies the canonical document skeleton.
func TestEncodeStructure(t *testing.T) {
	out := string(Encode(sampleCollection()))

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<kml xmlns="http://www.opengis.net/kml/2.2">`,
		`<Style id="popStyle">`,
		`<Style id="subPopStyle">`,
		`<styleUrl>#popStyle</styleUrl>`,
		`<styleUrl>#subPopStyle</styleUrl>`,
		// Longitude precedes latitude.
		`<coordinates>77.209023,28.613901,0</coordinates>`,
		`<coordinates>72.877655,19.076012,0</coordinates>`,
		`<Data name="network_id"><value>DL-01</value></Data>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded document missing %q", want)
		}
	}

	if strings.Count(out, "<Placemark>") != 2 {
		t.Errorf("placemark count = %d, want 2", strings.Count(out, "<Placemark>"))
	}
}

// TestEncodeOmitsEmptyExtendedData verifies no ExtendedData block is
// written for records without metadata.
func TestEncodeOmitsEmptyExtendedData(t *testing.T) {
	out := string(Encode(placemark.Collection{
		{Name: "Bare", Kind: placemark.KindPOP, Coordinates: geo.Point{Lat: 1, Lng: 2}},
	}))
	if strings.Contains(out, "<ExtendedData>") {
		t.Error("ExtendedData block written for record without metadata")
	}
}

// TestEncodeEscaping verifies markup-significant characters are escaped
// in names, descriptions and extended data.
func TestEncodeEscaping(t *testing.T) {
	out := string(Encode(placemark.Collection{
		{
			Name:         `Tower <A> & "B"`,
			Description:  "it's 5 > 4",
			Kind:         placemark.KindPOP,
			Coordinates:  geo.Point{Lat: 1, Lng: 2},
			ExtendedData: map[string]string{"note": "a<b&c"},
		},
	}))

	if !strings.Contains(out, "<name>Tower &lt;A&gt; &amp; &quot;B&quot;</name>") {
		t.Errorf("name not escaped: %s", out)
	}
	if !strings.Contains(out, "<description>it&apos;s 5 &gt; 4</description>") {
		t.Errorf("description not escaped: %s", out)
	}
	if !strings.Contains(out, "<value>a&lt;b&amp;c</value>") {
		t.Errorf("extended data not escaped: %s", out)
	}
}

// TestRoundTrip verifies encode-then-parse reproduces the collection:
// same count, same coordinates to at least 6 decimal places, same
// extended data.
func TestRoundTrip(t *testing.T) {
	records := sampleCollection()

	out, err := Parse(string(Encode(records)), placemark.KindPOP)
	if err != nil {
		t.Fatalf("round-trip parse failed: %v", err)
	}
	if len(out.Records) != len(records) {
		t.Fatalf("round-trip count = %d, want %d", len(out.Records), len(records))
	}

	for i, got := range out.Records {
		want := records[i]
		if math.Abs(got.Coordinates.Lat-want.Coordinates.Lat) > 1e-6 ||
			math.Abs(got.Coordinates.Lng-want.Coordinates.Lng) > 1e-6 {
			t.Errorf("record %d coordinates drifted: got %+v want %+v",
				i, got.Coordinates, want.Coordinates)
		}
		if got.Name != want.Name {
			t.Errorf("record %d name = %q, want %q", i, got.Name, want.Name)
		}
		for k, v := range want.ExtendedData {
			if got.Extended(k) != v {
				t.Errorf("record %d extended %q = %q, want %q", i, k, got.Extended(k), v)
			}
		}
	}
}

// TestRoundTripEscapedContent verifies escaping survives a full cycle.
func TestRoundTripEscapedContent(t *testing.T) {
	name := `He said "Hi" & left <quickly>`

	out, err := Parse(string(Encode(placemark.Collection{
		{Name: name, Kind: placemark.KindPOP, Coordinates: geo.Point{Lat: 1, Lng: 2}},
	})), placemark.KindPOP)
	if err != nil {
		t.Fatalf("round-trip parse failed: %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].Name != name {
		t.Errorf("round-tripped name = %q, want %q", out.Records[0].Name, name)
	}
}

// TestEncodeArchive verifies the KMZ container holds exactly one doc.kml
// entry whose content parses back to the original record count.
func TestEncodeArchive(t *testing.T) {
	records := sampleCollection()

	data, err := EncodeArchive(records)
	if err != nil {
		t.Fatalf("EncodeArchive failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("archive is not a valid zip: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("archive holds %d entries, want 1", len(zr.File))
	}
	if zr.File[0].Name != ArchiveEntryName {
		t.Fatalf("entry name = %q, want %q", zr.File[0].Name, ArchiveEntryName)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("opening entry: %v", err)
	}
	defer func() { _ = rc.Close() }()

	doc, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}

	out, err := Parse(string(doc), placemark.KindPOP)
	if err != nil {
		t.Fatalf("parsing archived document: %v", err)
	}
	if len(out.Records) != len(records) {
		t.Errorf("archived document has %d records, want %d", len(out.Records), len(records))
	}
}
