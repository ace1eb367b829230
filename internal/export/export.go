// Package export writes grid rows as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/brandadmin/internal/grid"
)

// Separator is the CSV field delimiter.
const Separator = ','

// Column is one exported column: the record key and its header label.
type Column struct {
	Key   string
	Label string
}

// Schema is the ordered list of exported columns.
type Schema []Column

// Labels returns the header row.
func (s Schema) Labels() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Label
	}
	return out
}

// Project turns records into rows holding exactly the schema's keys, in
// schema order. Missing keys become empty cells.
func Project(records []grid.Record, schema Schema) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(schema))
		for i, c := range schema {
			row[i] = FormatCell(rec[c.Key])
		}
		rows = append(rows, row)
	}
	return rows
}

// FileName returns <prefix>_<YYYY-MM-DD_HHMMSS>.csv.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("2006-01-02_150405"))
}

// Write sends rows as a CSV attachment named filename.
func Write(w http.ResponseWriter, filename string, schema Schema, rows [][]string) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	cw.Comma = Separator
	if err := cw.Write(schema.Labels()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// FormatCell renders a scanned value for a CSV cell.
func FormatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return FormatCell(f.Float64)
	case pgtype.Text:
		if !val.Valid {
			return ""
		}
		return val.String
	default:
		return fmt.Sprintf("%v", val)
	}
}

// BrandSchema is the brand export.
var BrandSchema = Schema{
	{Key: "id_manufacturer", Label: "ID"},
	{Key: "logo", Label: "Logo"},
	{Key: "name", Label: "Name"},
	{Key: "addresses_count", Label: "Addresses"},
	{Key: "products_count", Label: "Products"},
	{Key: "active", Label: "Enabled"},
}

// AddressSchema is the brand address export.
var AddressSchema = Schema{
	{Key: "id_address", Label: "ID"},
	{Key: "name", Label: "Brand"},
	{Key: "firstname", Label: "First name"},
	{Key: "lastname", Label: "Last name"},
	{Key: "postcode", Label: "Zip/Postal code"},
	{Key: "city", Label: "City"},
	{Key: "country", Label: "Country"},
}

// LogSchema is the log export.
var LogSchema = Schema{
	{Key: "id_log", Label: "ID"},
	{Key: "employee", Label: "Employee"},
	{Key: "severity", Label: "Severity (1-4)"},
	{Key: "message", Label: "Message"},
	{Key: "object_type", Label: "Object type"},
	{Key: "object_id", Label: "Object ID"},
	{Key: "error_code", Label: "Error code"},
	{Key: "date_add", Label: "Date"},
}

const (
	BrandPrefix   = "brands"
	AddressPrefix = "address"
	LogPrefix     = "logs"
)
