package export

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/infratel/telemap/internal/placemark"
)

// encodeCSV writes the canonical header followed by one row per record.
// Every field is double-quoted with internal quotes doubled; the
// standard library csv writer quotes only when necessary and cannot
// express that, so rows are written directly.
func encodeCSV(records placemark.Collection) []byte {
	var buf bytes.Buffer

	writeCSVRow(&buf, Columns)
	for _, r := range records {
		writeCSVRow(&buf, row(r))
	}

	return buf.Bytes()
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
