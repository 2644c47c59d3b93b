package bom

import (
	"sort"

	"bomcalc/internal"
	"bomcalc/internal/util"
)

// productCols are the recipe-level fields, populated only on header rows
// in the source export and filled down onto the detail rows below them.
var productCols = []string{
	"Producto",
	"Nombre_prod",
	"Cantidad_prod",
	"Unidad_prod",
	"Referencia",
	"Tipo_BOM",
	"Costo_receta",
	"PU",
}

// detailShift remaps the four component fields of a detail row. The
// export writes them one column to the left of where they belong, so the
// corrected value of each field is read from its left neighbor in the
// original row. Header rows are laid out correctly and are not touched.
var detailShift = [][2]string{
	{"Componente", "PU"},
	{"Nombre_comp", "Componente"},
	{"Cantidad_comp", "Nombre_comp"},
	{"Unidad_comp", "Cantidad_comp"},
}

// Normalized is the clean relational view of one BOM workbook: the
// deduplicated product catalog plus one line per (product, component).
// It is immutable once built; every computation pass reads from it.
type Normalized struct {
	Recipes []internal.Recipe
	Lines   []internal.BomLine

	byID map[string]internal.Recipe
}

func (n *Normalized) RecipeByID(id string) (internal.Recipe, bool) {
	r, ok := n.byID[id]
	return r, ok
}

// NewNormalized assembles a Normalized from already-clean tables, e.g.
// rows read back from the cache.
func NewNormalized(recipes []internal.Recipe, lines []internal.BomLine) *Normalized {
	n := &Normalized{Recipes: recipes, Lines: lines, byID: map[string]internal.Recipe{}}
	for _, r := range recipes {
		n.byID[r.ProductID] = r
	}
	return n
}

// Normalize reconstructs the relational BOM from raw interleaved rows:
// remap the shifted component fields on detail rows, fill the
// product-level fields down from each header row, coerce numerics (bad
// cells become zero, never an error), and drop rows without a component
// id. The remap reads the row as written, before any fill-down, so a
// continuation row with no component of its own resolves to an empty id
// and gets discarded as noise instead of inheriting recipe values.
func Normalize(rows []internal.RawBomRow) *Normalized {
	shifted := make([]internal.RawBomRow, len(rows))
	for i, row := range rows {
		fields := row.Fields
		if row.Kind == internal.RowDetail {
			fields = remapDetail(fields)
		}
		shifted[i] = internal.RawBomRow{Kind: row.Kind, Fields: fields}
	}
	filled := fillDown(shifted)

	n := &Normalized{byID: map[string]internal.Recipe{}}
	for _, row := range filled {
		fields := row.Fields

		productID := util.CleanCell(fields["Producto"])

		if row.Kind == internal.RowHeader && productID != "" {
			if _, seen := n.byID[productID]; !seen {
				r := internal.Recipe{
					ProductID:   productID,
					ProductName: util.CleanCell(fields["Nombre_prod"]),
					ProductQty:  util.CoerceFloat(fields["Cantidad_prod"]),
					ProductUnit: util.CleanCell(fields["Unidad_prod"]),
					Reference:   util.CleanCell(fields["Referencia"]),
					RecipeType:  util.CleanCell(fields["Tipo_BOM"]),
					RecipeCost:  util.CoerceFloat(fields["Costo_receta"]),
					UnitPrice:   util.CoerceFloat(fields["PU"]),
				}
				n.byID[productID] = r
				n.Recipes = append(n.Recipes, r)
			}
		}

		componentID := util.CleanCell(fields["Componente"])
		if componentID == "" {
			continue
		}
		n.Lines = append(n.Lines, internal.BomLine{
			ProductID:     productID,
			ComponentID:   componentID,
			ComponentName: util.CleanCell(fields["Nombre_comp"]),
			ComponentQty:  util.CoerceFloat(fields["Cantidad_comp"]),
			ComponentUnit: util.CleanCell(fields["Unidad_comp"]),
		})
	}

	sort.Slice(n.Recipes, func(i, j int) bool {
		return n.Recipes[i].ProductID < n.Recipes[j].ProductID
	})
	return n
}

// fillDown propagates the last seen product-level value onto rows where
// the cell is blank. Detail rows only carry component data; their recipe
// context comes from the header row above them.
func fillDown(rows []internal.RawBomRow) []internal.RawBomRow {
	last := map[string]string{}
	out := make([]internal.RawBomRow, len(rows))
	for i, row := range rows {
		fields := make(map[string]string, len(row.Fields))
		for k, v := range row.Fields {
			fields[k] = v
		}
		for _, col := range productCols {
			if util.CleanCell(fields[col]) == "" {
				fields[col] = last[col]
			} else {
				last[col] = fields[col]
			}
		}
		out[i] = internal.RawBomRow{Kind: row.Kind, Fields: fields}
	}
	return out
}

func remapDetail(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, m := range detailShift {
		out[m[0]] = fields[m[1]]
	}
	return out
}
