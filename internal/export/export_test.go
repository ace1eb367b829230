package export

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/brandadmin/internal/grid"
)

func TestFileName(t *testing.T) {
	now := time.Date(2024, 1, 9, 7, 5, 3, 0, time.UTC)
	if got, want := FileName(BrandPrefix, now), "brands_2024-01-09_070503.csv"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
	if got, want := FileName(AddressPrefix, now), "address_2024-01-09_070503.csv"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestProject(t *testing.T) {
	records := []grid.Record{
		{"id_manufacturer": int32(3), "name": "Acme", "active": true, "logo": "/img/m/3.jpg", "extra": "dropped"},
		{"id_manufacturer": int64(4), "name": "Bolt", "active": false},
	}

	rows := Project(records, BrandSchema)

	want := [][]string{
		{"3", "/img/m/3.jpg", "Acme", "", "", "1"},
		{"4", "", "Bolt", "", "", "0"},
	}
	if len(rows) != len(want) {
		t.Fatalf("Project() returned %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if len(rows[i]) != len(BrandSchema) {
			t.Fatalf("row %d has %d cells, want %d", i, len(rows[i]), len(BrandSchema))
		}
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("rows[%d][%d] = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestFormatCell(t *testing.T) {
	when := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	var num pgtype.Numeric
	if err := num.Scan("12.5"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "1"},
		{7, "7"},
		{3.0, "3"},
		{3.456, "3.46"},
		{when, "2024-02-03 04:05:06"},
		{&when, "2024-02-03 04:05:06"},
		{(*time.Time)(nil), ""},
		{num, "12.50"},
		{pgtype.Text{}, ""},
	}
	for _, tt := range tests {
		if got := FormatCell(tt.in); got != tt.want {
			t.Errorf("FormatCell(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()

	err := Write(rec, "address_2024-01-09_070503.csv", AddressSchema, [][]string{
		{"5", "Acme", "Ada", "Lovelace", "75001", "Paris", "France"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="address_2024-01-09_070503.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	want := "ID,Brand,First name,Last name,Zip/Postal code,City,Country\n" +
		"5,Acme,Ada,Lovelace,75001,Paris,France\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}
