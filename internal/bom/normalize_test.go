package bom

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"bomcalc/internal"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func headerRow() []any {
	out := make([]any, len(internal.ExpectedColumns))
	for i, c := range internal.ExpectedColumns {
		out[i] = c
	}
	return out
}

// fixtureRows is a small recipe book in the source export's layout: one
// header row per product carrying its first component in the correct
// columns, then continuation rows whose component fields sit one column
// to the left of where they belong.
func fixtureRows() [][]any {
	return [][]any{
		headerRow(),
		{"P001", "Pizza", 1, "unidad", "REF1", "PROD", 10.0, 5.0, "X001", "Harina", 200, "gr"},
		{"", "", "", "", "", "", "", "X002", "Queso", 100, "gr", ""},
		{"P002", "Torta", 1, "unidad", "REF2", "PROD", 20.0, 0, "X001", "Harina", 300, "gr"},
		{"", "", "", "", "", "", "", "X003", "Azucar", 50, "gr", ""},
		{"", "", "", "", "", "", "", "", "nota al pie", "", "", ""},
	}
}

func loadFixture(t *testing.T) *Normalized {
	t.Helper()
	raw, err := Parse(mkXLSX(t, fixtureRows()))
	if err != nil {
		t.Fatal(err)
	}
	return Normalize(raw)
}

func TestParseClassifiesRows(t *testing.T) {
	raw, err := Parse(mkXLSX(t, fixtureRows()))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 5 {
		t.Fatalf("rows=%d", len(raw))
	}
	wantKinds := []internal.RowKind{
		internal.RowHeader, internal.RowDetail,
		internal.RowHeader, internal.RowDetail, internal.RowDetail,
	}
	for i, k := range wantKinds {
		if raw[i].Kind != k {
			t.Fatalf("row %d kind=%s want %s", i, raw[i].Kind, k)
		}
	}
}

func TestParseMissingColumn(t *testing.T) {
	rows := fixtureRows()
	header := rows[0]
	rows[0] = append(append([]any{}, header[:7]...), header[8:]...) // drop PU

	_, err := Parse(mkXLSX(t, rows))
	var schemaErr *internal.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 1 || schemaErr.Missing[0] != "PU" {
		t.Fatalf("missing=%v", schemaErr.Missing)
	}
}

func TestNormalizeRecipes(t *testing.T) {
	n := loadFixture(t)

	if len(n.Recipes) != 2 {
		t.Fatalf("recipes=%d", len(n.Recipes))
	}
	p1 := n.Recipes[0]
	if p1.ProductID != "P001" || p1.ProductName != "Pizza" || p1.RecipeCost != 10 || p1.UnitPrice != 5 {
		t.Fatalf("unexpected recipe: %+v", p1)
	}
	p2 := n.Recipes[1]
	if p2.ProductID != "P002" || p2.UnitPrice != 0 {
		t.Fatalf("unexpected recipe: %+v", p2)
	}
	if p1.Label() != "P001 – Pizza" {
		t.Fatalf("label=%q", p1.Label())
	}
}

func TestNormalizeShiftsDetailRows(t *testing.T) {
	n := loadFixture(t)

	if len(n.Lines) != 4 {
		t.Fatalf("lines=%d: %+v", len(n.Lines), n.Lines)
	}

	want := []internal.BomLine{
		{ProductID: "P001", ComponentID: "X001", ComponentName: "Harina", ComponentQty: 200, ComponentUnit: "gr"},
		{ProductID: "P001", ComponentID: "X002", ComponentName: "Queso", ComponentQty: 100, ComponentUnit: "gr"},
		{ProductID: "P002", ComponentID: "X001", ComponentName: "Harina", ComponentQty: 300, ComponentUnit: "gr"},
		{ProductID: "P002", ComponentID: "X003", ComponentName: "Azucar", ComponentQty: 50, ComponentUnit: "gr"},
	}
	for i, w := range want {
		if n.Lines[i] != w {
			t.Fatalf("line %d: got %+v want %+v", i, n.Lines[i], w)
		}
	}
}

func TestNormalizeDropsNoiseRows(t *testing.T) {
	n := loadFixture(t)
	for _, l := range n.Lines {
		if l.ComponentID == "" {
			t.Fatalf("noise row survived: %+v", l)
		}
	}
}

func TestNormalizeCoercesBadNumerics(t *testing.T) {
	rows := [][]any{
		headerRow(),
		{"P009", "Flan", "n/a", "unidad", "REF9", "PROD", "abc", "1,5", "X009", "Leche", "2 000", "ml"},
	}
	raw, err := Parse(mkXLSX(t, rows))
	if err != nil {
		t.Fatal(err)
	}
	n := Normalize(raw)

	r, ok := n.RecipeByID("P009")
	if !ok {
		t.Fatal("recipe not found")
	}
	if r.ProductQty != 0 || r.RecipeCost != 0 {
		t.Fatalf("bad cells must coerce to zero: %+v", r)
	}
	if r.UnitPrice != 1.5 {
		t.Fatalf("unitPrice=%v", r.UnitPrice)
	}
	if len(n.Lines) != 1 || n.Lines[0].ComponentQty != 2000 {
		t.Fatalf("lines=%+v", n.Lines)
	}
}
