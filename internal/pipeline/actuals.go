package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"bomcalc/internal"
	"bomcalc/internal/util"
)

// Column aliases accepted in actual-consumption inputs, matched against
// folded headers. People export these tables from half a dozen systems;
// insisting on one exact header name is a losing battle.
var (
	componentAliases = map[string]bool{"componente": true, "component": true, "sku": true, "insumo": true}
	qtyAliases       = map[string]bool{"cant_real": true, "cantidad_real": true, "consumo_real": true, "real": true}
)

// ReadActualsFile loads actual consumption from a delimited file, an
// HTML table, or a spreadsheet, picked by extension.
func ReadActualsFile(path string) ([]internal.ActualConsumption, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ParseActualsCSV(bytes.NewReader(blob))
	case ".html", ".htm":
		return ParseActualsHTML(bytes.NewReader(blob))
	case ".xlsx", ".xls":
		return ParseActualsXLSX(blob)
	default:
		return nil, fmt.Errorf("unsupported actuals format: %s", filepath.Ext(path))
	}
}

// ParseActualsCSV reads a comma- or semicolon-delimited table. A UTF-8
// BOM on the first header cell is tolerated.
func ParseActualsCSV(r io.Reader) ([]internal.ActualConsumption, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(blob))
	reader.Comma = sniffDelimiter(blob)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return actualsFromTable(rows)
}

// ParseActualsHTML extracts actuals from the first <table> whose header
// row carries the expected columns, for tables pasted out of a browser
// or webmail.
func ParseActualsHTML(r io.Reader) ([]internal.ActualConsumption, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var out []internal.ActualConsumption
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := [][]string{}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			rows = append(rows, cells)
		})
		parsed, err := actualsFromTable(rows)
		if err != nil {
			return true
		}
		out = parsed
		found = true
		return false
	})

	if !found {
		return nil, &internal.MissingActualColumnsError{}
	}
	return out, nil
}

func ParseActualsXLSX(content []byte) ([]internal.ActualConsumption, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &internal.MissingActualColumnsError{}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return actualsFromTable(rows)
}

// actualsFromTable resolves the aliased columns on the first non-empty
// row, coerces quantities (bad cells count as zero), and sums duplicate
// component ids so the KPI join sees one row per component.
func actualsFromTable(rows [][]string) ([]internal.ActualConsumption, error) {
	compCol, qtyCol := -1, -1
	headerIdx := -1
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		for c, cell := range row {
			folded := util.FoldHeader(cell)
			if compCol < 0 && componentAliases[folded] {
				compCol = c
			}
			if qtyCol < 0 && qtyAliases[folded] {
				qtyCol = c
			}
		}
		headerIdx = i
		break
	}
	if compCol < 0 || qtyCol < 0 {
		return nil, &internal.MissingActualColumnsError{}
	}

	sums := map[string]float64{}
	order := []string{}
	for _, row := range rows[headerIdx+1:] {
		id := ""
		if compCol < len(row) {
			id = util.CleanCell(row[compCol])
		}
		if id == "" {
			continue
		}
		qty := 0.0
		if qtyCol < len(row) {
			qty = util.CoerceFloat(row[qtyCol])
		}
		if _, seen := sums[id]; !seen {
			order = append(order, id)
		}
		sums[id] += qty
	}

	out := make([]internal.ActualConsumption, 0, len(order))
	for _, id := range order {
		out = append(out, internal.ActualConsumption{ComponentID: id, ActualQty: sums[id]})
	}
	return out, nil
}

func sniffDelimiter(blob []byte) rune {
	line := blob
	if i := bytes.IndexByte(blob, '\n'); i >= 0 {
		line = blob[:i]
	}
	if bytes.ContainsRune(line, ';') && !bytes.ContainsRune(line, ',') {
		return ';'
	}
	return ','
}
