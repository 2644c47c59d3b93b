package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bomcalc/internal"
)

// utf8Bom prefixes every CSV artifact so spreadsheet tools open them as
// UTF-8 instead of guessing a legacy codepage.
var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

const (
	RequirementFile = "insumos_pedido.csv"
	DetailFile      = "detalle_bom_pedido.csv"
	KpiFile         = "kpi_merma_real.csv"
)

// ExportCSV writes the result artifacts into dir: the per-component
// requirement, the per-(product, component) detail, and, when the KPI
// section was computed, the shrinkage KPI. Returns the paths written.
func ExportCSV(res *Result, dir string, delimiter rune) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	written := []string{}
	write := func(name string, header []string, rows [][]string) error {
		path := filepath.Join(dir, name)
		if err := writeCSVFile(path, delimiter, header, rows); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	header, rows := requirementTable(res.Explosion.Totals)
	if err := write(RequirementFile, header, rows); err != nil {
		return written, err
	}

	header, rows = detailTable(res.Explosion.Detail)
	if err := write(DetailFile, header, rows); err != nil {
		return written, err
	}

	if res.Kpi != nil {
		header, rows = kpiTable(res.Kpi.Rows)
		if err := write(KpiFile, header, rows); err != nil {
			return written, err
		}
	}

	return written, nil
}

// ExportXLSX writes the same artifacts as one workbook, one sheet each.
func ExportXLSX(res *Result, outputPath string) error {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	writeSheet := func(sheet string, header []string, rows [][]string) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		for c, h := range header {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}
		for r, row := range rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
		return nil
	}

	header, rows := requirementTable(res.Explosion.Totals)
	if err := writeSheet("Insumos", header, rows); err != nil {
		return err
	}
	header, rows = detailTable(res.Explosion.Detail)
	if err := writeSheet("Detalle", header, rows); err != nil {
		return err
	}
	if res.Kpi != nil {
		header, rows = kpiTable(res.Kpi.Rows)
		if err := writeSheet("KPI", header, rows); err != nil {
			return err
		}
	}
	if res.Costs != nil {
		header, rows = costTable(res.Costs.Lines)
		if err := writeSheet("Costos", header, rows); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeCSVFile(path string, delimiter rune, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(utf8Bom); err != nil {
		return err
	}

	w := csv.NewWriter(file)
	w.Comma = delimiter
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func requirementTable(totals []internal.ComponentTotal) ([]string, [][]string) {
	header := []string{
		"Componente", "Nombre_comp", "Unidad_comp",
		"Cant_total_comp_teorico", "Cant_total_comp_objetivo",
		"Unidad_final", "Cant_total_teorico_final", "Cant_total_objetivo_final",
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.ComponentID, t.ComponentName, t.ComponentUnit,
			fmtFloat(t.TheoreticalQty), fmtFloat(t.TargetQty),
			t.FinalUnit, fmtFloat(t.TheoreticalFinal), fmtFloat(t.TargetFinal),
		})
	}
	return header, rows
}

func detailTable(detail []internal.DetailRow) ([]string, [][]string) {
	header := []string{
		"Producto", "Nombre_prod", "Cantidad_pedida",
		"Componente", "Nombre_comp", "Cantidad_comp", "Unidad_comp",
		"Cant_total_comp_teorico", "Cant_total_comp_objetivo",
	}
	rows := make([][]string, 0, len(detail))
	for _, d := range detail {
		rows = append(rows, []string{
			d.ProductID, d.ProductName, strconv.Itoa(d.RequestedQty),
			d.ComponentID, d.ComponentName, fmtFloat(d.ComponentQty), d.ComponentUnit,
			fmtFloat(d.TheoreticalQty), fmtFloat(d.TargetQty),
		})
	}
	return header, rows
}

func kpiTable(kpiRows []internal.KpiRow) ([]string, [][]string) {
	header := []string{
		"Componente", "Nombre_comp", "Unidad_final",
		"Cant_total_teorico_final", "Cant_total_objetivo_final", "Cant_real_final",
		"Merma_real_pct", "Gap_vs_teorico", "Gap_vs_objetivo",
	}
	rows := make([][]string, 0, len(kpiRows))
	for _, k := range kpiRows {
		rows = append(rows, []string{
			k.ComponentID, k.ComponentName, k.FinalUnit,
			fmtFloat(k.TheoreticalFinal), fmtFloat(k.TargetFinal), fmtFloat(k.ActualFinal),
			fmtFloatPtr(k.ShrinkagePct), fmtFloat(k.GapVsTheoretical), fmtFloat(k.GapVsTarget),
		})
	}
	return header, rows
}

func costTable(lines []internal.CostLine) ([]string, [][]string) {
	header := []string{
		"Producto", "Nombre_prod", "Cantidad_pedida",
		"Costo_receta", "PU_teorico", "Costo_total_teorico", "Costo_total_objetivo",
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.ProductID, l.ProductName, strconv.Itoa(l.RequestedQty),
			fmtDecimalPtr(l.RecipeCost), fmtDecimalPtr(l.UnitCost),
			fmtDecimalPtr(l.CostTheoretical), fmtDecimalPtr(l.CostTarget),
		})
	}
	return header, rows
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

func fmtDecimalPtr(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}
