package internal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpectedColumns is the fixed header set of the source BOM workbook.
// Order matters: it mirrors the column layout of the export this tool ingests.
var ExpectedColumns = []string{
	"Producto",
	"Nombre_prod",
	"Cantidad_prod",
	"Unidad_prod",
	"Referencia",
	"Tipo_BOM",
	"Costo_receta",
	"PU",
	"Componente",
	"Nombre_comp",
	"Cantidad_comp",
	"Unidad_comp",
}

type RowKind string

const (
	RowHeader RowKind = "header"
	RowDetail RowKind = "detail"
)

// RawBomRow is one spreadsheet row keyed by the expected column names,
// before any normalization. All values are kept as strings; coercion
// happens during normalization.
type RawBomRow struct {
	Kind   RowKind
	Fields map[string]string
}

// Recipe carries the product-level attributes of one BOM header.
type Recipe struct {
	ProductID   string
	ProductName string
	ProductQty  float64
	ProductUnit string
	Reference   string
	RecipeType  string
	RecipeCost  float64
	UnitPrice   float64
}

func (r Recipe) Label() string {
	return r.ProductID + " – " + r.ProductName
}

// BomLine is one (product, component) pair of the normalized BOM.
type BomLine struct {
	ProductID     string
	ComponentID   string
	ComponentName string
	ComponentQty  float64
	ComponentUnit string
}

// OrderLine is one user-requested (product, quantity) pair.
type OrderLine struct {
	ProductID    string
	RequestedQty int
}

// DetailRow is the per-(order line, component) expansion of an order.
type DetailRow struct {
	ProductID      string
	ProductName    string
	RequestedQty   int
	ComponentID    string
	ComponentName  string
	ComponentQty   float64
	ComponentUnit  string
	TheoreticalQty float64
	TargetQty      float64
}

// ComponentTotal is the aggregated requirement for one component across
// the whole order, before and after unit normalization.
type ComponentTotal struct {
	ComponentID      string
	ComponentName    string
	ComponentUnit    string
	TheoreticalQty   float64
	TargetQty        float64
	FinalUnit        string
	TheoreticalFinal float64
	TargetFinal      float64
}

// CostLine is the cost rollup for one order line. Nil cost fields mean
// "undefined": the product was not found in the catalog, the unit price
// is zero, or target costing is disabled.
type CostLine struct {
	ProductID       string
	ProductName     string
	RequestedQty    int
	RecipeCost      *decimal.Decimal
	UnitCost        *decimal.Decimal
	CostTheoretical *decimal.Decimal
	CostTarget      *decimal.Decimal
}

// CostSummary totals the defined cost lines; undefined lines are skipped,
// they do not poison the totals.
type CostSummary struct {
	TotalTheoretical decimal.Decimal
	TotalTarget      *decimal.Decimal
}

// ActualConsumption is one externally reported (component, quantity) pair,
// already aggregated by component before KPI computation.
type ActualConsumption struct {
	ComponentID string
	ActualQty   float64
}

// KpiRow joins a component total with its actual consumption.
// ShrinkagePct is nil when the theoretical final quantity is zero.
type KpiRow struct {
	ComponentID      string
	ComponentName    string
	FinalUnit        string
	TheoreticalFinal float64
	TargetFinal      float64
	ActualFinal      float64
	ShrinkagePct     *float64
	GapVsTheoretical float64
	GapVsTarget      float64
}

// KpiSummary is the order-wide shrinkage picture, computed sum-then-ratio
// over the summed finals rather than averaging per-row percentages.
type KpiSummary struct {
	TotalTheoretical float64
	TotalTarget      float64
	TotalActual      float64
	GlobalShrinkage  *float64
	GlobalGapTarget  float64
}

// SchemaError reports required columns absent from the source workbook.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bom source is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// InvalidWasteInputError reports an unparseable or negative waste fraction.
type InvalidWasteInputError struct {
	Raw string
}

func (e *InvalidWasteInputError) Error() string {
	return fmt.Sprintf("invalid waste fraction %q: use forms like 0.10, .30, 0,30 or 30%%", e.Raw)
}

// MissingActualColumnsError reports an actual-consumption table without a
// recognizable component or quantity column.
type MissingActualColumnsError struct{}

func (e *MissingActualColumnsError) Error() string {
	return "actual consumption input must have a component column (Componente/Component/SKU/Insumo) and a quantity column (Cant_real/Cantidad_real/Consumo_real/Real)"
}
