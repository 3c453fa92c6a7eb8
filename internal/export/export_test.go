package export

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/infratel/telemap/internal/geo"
	"github.com/infratel/telemap/internal/kml"
	"github.com/infratel/telemap/internal/placemark"
)

func sampleCollection() placemark.Collection {
	return placemark.Collection{
		{
			ID:          "pop_0",
			Name:        "Connaught Place",
			Description: "Primary POP",
			Kind:        placemark.KindPOP,
			Coordinates: geo.Point{Lat: 28.6139, Lng: 77.209},
			ExtendedData: map[string]string{
				placemark.KeyStatus:      "active",
				placemark.KeyCreatedDate: "2024-01-15",
				placemark.KeyLastUpdated: "2024-06-02",
			},
		},
		{
			ID:          "subpop_1",
			Name:        "Bandra West",
			Kind:        placemark.KindSubPOP,
			Coordinates: geo.Point{Lat: 19.076, Lng: 72.8777},
		},
	}
}

// TestParseFormat verifies name resolution and the unsupported error.
func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "XLSX", " kml ", "kmz"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", s, err)
		}
	}

	_, err := ParseFormat("pdf")
	if err == nil {
		t.Fatal("ParseFormat should reject pdf")
	}
	if !strings.Contains(err.Error(), `"pdf"`) {
		t.Errorf("error %q does not name the offending format", err)
	}
}

// TestEncodeUnsupported verifies dispatch never falls back silently.
func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode(sampleCollection(), Format("shapefile"), Options{})
	if err == nil {
		t.Fatal("Encode should reject an unknown format")
	}
	if !strings.Contains(err.Error(), `"shapefile"`) {
		t.Errorf("error %q does not name the offending format", err)
	}
}

// TestEncodeCSV verifies the header, row order and all-fields quoting.
func TestEncodeCSV(t *testing.T) {
	data, err := Encode(sampleCollection(), FormatCSV, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want 3", len(lines))
	}

	wantHeader := `"Name","Type","Latitude","Longitude","Description","Status","CreatedDate","LastUpdated"`
	if lines[0] != wantHeader {
		t.Errorf("header = %s", lines[0])
	}

	wantRow := `"Connaught Place","POP","28.6139","77.209","Primary POP","active","2024-01-15","2024-06-02"`
	if lines[1] != wantRow {
		t.Errorf("row = %s, want %s", lines[1], wantRow)
	}

	if !strings.HasPrefix(lines[2], `"Bandra West","Sub-POP",`) {
		t.Errorf("second row = %s", lines[2])
	}
	if !strings.Contains(lines[2], `"","","",""`) {
		t.Errorf("missing metadata should render as empty quoted fields: %s", lines[2])
	}
}

// TestEncodeCSVQuoting verifies internal double quotes are doubled.
func TestEncodeCSVQuoting(t *testing.T) {
	data, err := Encode(placemark.Collection{
		{
			Name:        `He said "Hi", ok`,
			Kind:        placemark.KindPOP,
			Coordinates: geo.Point{Lat: 1.0, Lng: 2.0},
		},
	}, FormatCSV, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.Contains(string(data), `"He said ""Hi"", ok"`) {
		t.Errorf("quoted name not found in output:\n%s", data)
	}
}

// TestEncodeXLSX reads the workbook back and checks header and cells.
func TestEncodeXLSX(t *testing.T) {
	data, err := Encode(sampleCollection(), FormatXLSX, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("workbook has %d rows, want 3", len(rows))
	}

	for i, want := range Columns {
		if rows[0][i] != want {
			t.Errorf("header column %d = %q, want %q", i, rows[0][i], want)
		}
	}
	if rows[1][0] != "Connaught Place" || rows[1][1] != "POP" {
		t.Errorf("first row = %v", rows[1])
	}

	lat, err := f.GetCellValue(sheetName, "C2")
	if err != nil {
		t.Fatalf("reading C2: %v", err)
	}
	if !strings.HasPrefix(lat, "28.6139") {
		t.Errorf("latitude cell = %q, want 28.6139", lat)
	}

	width, err := f.GetColWidth(sheetName, "A")
	if err != nil {
		t.Fatalf("reading column width: %v", err)
	}
	if width != columnWidths[0] {
		t.Errorf("column A width = %v, want %v", width, columnWidths[0])
	}
}

// TestEncodeKML verifies dispatch hands KML through unchanged.
func TestEncodeKML(t *testing.T) {
	records := sampleCollection()

	data, err := Encode(records, FormatKML, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(data, kml.Encode(records)) {
		t.Error("export kml differs from the kml encoder output")
	}
}

// TestEncodeKMLMinified verifies minification keeps a parseable document
// with the same record count.
func TestEncodeKMLMinified(t *testing.T) {
	records := sampleCollection()

	plain, err := Encode(records, FormatKML, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	small, err := Encode(records, FormatKML, Options{Minify: true})
	if err != nil {
		t.Fatalf("Encode minified failed: %v", err)
	}

	if len(small) >= len(plain) {
		t.Errorf("minified output (%d bytes) not smaller than plain (%d bytes)", len(small), len(plain))
	}

	out, err := kml.Parse(string(small), placemark.KindPOP)
	if err != nil {
		t.Fatalf("minified document does not parse: %v", err)
	}
	if len(out.Records) != len(records) {
		t.Errorf("minified document has %d records, want %d", len(out.Records), len(records))
	}
}

// TestEncodeKMZ verifies the archive entry and the minify option.
func TestEncodeKMZ(t *testing.T) {
	for _, minify := range []bool{false, true} {
		data, err := Encode(sampleCollection(), FormatKMZ, Options{Minify: minify})
		if err != nil {
			t.Fatalf("Encode kmz (minify=%v) failed: %v", minify, err)
		}

		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			t.Fatalf("kmz is not a valid zip: %v", err)
		}
		if len(zr.File) != 1 || zr.File[0].Name != kml.ArchiveEntryName {
			t.Fatalf("unexpected archive layout: %+v", zr.File)
		}
	}
}

// TestFormatMetadata covers content types and extensions.
func TestFormatMetadata(t *testing.T) {
	if FormatCSV.Ext() != ".csv" || FormatKMZ.Ext() != ".kmz" {
		t.Error("unexpected format extensions")
	}
	if !strings.Contains(FormatXLSX.ContentType(), "spreadsheet") {
		t.Errorf("xlsx content type = %q", FormatXLSX.ContentType())
	}
	if !strings.Contains(FormatKML.ContentType(), "kml") {
		t.Errorf("kml content type = %q", FormatKML.ContentType())
	}
}
