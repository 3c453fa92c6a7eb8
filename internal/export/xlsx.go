package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/infratel/telemap/internal/placemark"
)

const sheetName = "Placemarks"

// Fixed column widths, one per canonical column, for readable output.
var columnWidths = []float64{28, 10, 14, 14, 40, 12, 16, 16}

// encodeXLSX builds a workbook with the canonical columns and one row
// per record. Coordinates are written as numbers with full float
// precision, everything else as text.
func encodeXLSX(records placemark.Collection) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("resolving column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("setting column width: %w", err)
		}
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}

	for i, r := range records {
		cells := []interface{}{
			r.Name,
			r.Kind.Label(),
			r.Coordinates.Lat,
			r.Coordinates.Lng,
			r.Description,
			r.Extended(placemark.KeyStatus),
			r.Extended(placemark.KeyCreatedDate),
			r.Extended(placemark.KeyLastUpdated),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("resolving row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
