package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bomcalc/internal"
	"bomcalc/internal/util"
)

// ParseOrderSpec parses the inline order syntax "P001=3,P002=2" into
// order lines. Quantities must be non-negative integers; zero-quantity
// entries are kept here and dropped by the exploder, matching how an
// interactive shell passes every captured field through.
func ParseOrderSpec(spec string) ([]internal.OrderLine, error) {
	out := []internal.OrderLine{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, qtyStr, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("bad order entry %q: want PRODUCT=QTY", part)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("bad quantity in order entry %q", part)
		}
		out = append(out, internal.OrderLine{ProductID: strings.TrimSpace(id), RequestedQty: qty})
	}
	return out, nil
}

// ReadOrderFile loads order lines from a delimited file with Producto
// and Cantidad_pedida columns (folded, alias-tolerant). Non-numeric
// quantities coerce to zero.
func ReadOrderFile(path string) ([]internal.OrderLine, error) {
	blob, err := os.ReadFile(path)
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

	prodCol, qtyCol := -1, -1
	headerIdx := -1
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		for c, cell := range row {
			switch util.FoldHeader(cell) {
			case "producto", "product":
				if prodCol < 0 {
					prodCol = c
				}
			case "cantidad_pedida", "cantidad", "qty", "quantity":
				if qtyCol < 0 {
					qtyCol = c
				}
			}
		}
		headerIdx = i
		break
	}
	if prodCol < 0 || qtyCol < 0 {
		return nil, fmt.Errorf("order file must have Producto and Cantidad_pedida columns")
	}

	out := []internal.OrderLine{}
	for _, row := range rows[headerIdx+1:] {
		id := ""
		if prodCol < len(row) {
			id = util.CleanCell(row[prodCol])
		}
		if id == "" {
			continue
		}
		qty := 0
		if qtyCol < len(row) {
			qty = int(util.CoerceFloat(row[qtyCol]))
		}
		out = append(out, internal.OrderLine{ProductID: id, RequestedQty: qty})
	}
	return out, nil
}
