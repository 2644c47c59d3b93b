package bom

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bomcalc/internal"
	"bomcalc/internal/util"
)

// Parse reads raw BOM rows out of an xlsx blob. The first non-empty row
// of the first sheet must carry all twelve expected column headers; the
// columns may appear in any order. Each following row is classified as a
// recipe header or a component detail by the presence of the Tipo_BOM
// marker in the cell as read, before any fill-down.
func Parse(content []byte) ([]internal.RawBomRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("bom workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	headerIdx := -1
	colByName := map[string]int{}
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		for c, cell := range row {
			colByName[util.CleanCell(cell)] = c
		}
		headerIdx = i
		break
	}
	if headerIdx < 0 {
		return nil, &internal.SchemaError{Missing: internal.ExpectedColumns}
	}

	missing := []string{}
	for _, name := range internal.ExpectedColumns {
		if _, ok := colByName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &internal.SchemaError{Missing: missing}
	}

	out := make([]internal.RawBomRow, 0, len(rows))
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		fields := map[string]string{}
		for _, name := range internal.ExpectedColumns {
			fields[name] = cellAt(row, colByName[name])
		}
		kind := internal.RowDetail
		if util.CleanCell(fields["Tipo_BOM"]) != "" {
			kind = internal.RowHeader
		}
		out = append(out, internal.RawBomRow{Kind: kind, Fields: fields})
	}
	return out, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if util.CleanCell(cell) != "" {
			return false
		}
	}
	return true
}
