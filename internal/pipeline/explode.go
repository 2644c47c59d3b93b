package pipeline

import (
	"sort"

	"bomcalc/internal"
	"bomcalc/internal/bom"
	"bomcalc/internal/util"
)

// Explosion is the result of fanning an order out over the BOM: the
// per-(order line, component) detail, the per-component aggregate, and
// the ordered products that have no recipe lines at all. The latter is a
// warning condition, not an error: such products simply contribute
// nothing, matching left-join semantics, but the operator should know.
type Explosion struct {
	Detail          []internal.DetailRow
	Totals          []internal.ComponentTotal
	MissingProducts []string
}

// Explode computes total component consumption for an order. Order lines
// with quantity <= 0 are dropped first. One waste fraction applies to
// the whole order. A component consumed by several ordered products
// accumulates into a single total keyed by (id, name, unit).
func Explode(b *bom.Normalized, order []internal.OrderLine, waste float64) Explosion {
	factor := 1 + waste

	linesByProduct := map[string][]internal.BomLine{}
	for _, l := range b.Lines {
		linesByProduct[l.ProductID] = append(linesByProduct[l.ProductID], l)
	}

	type totalKey struct {
		id, name, unit string
	}

	ex := Explosion{}
	acc := map[totalKey]*internal.ComponentTotal{}
	for _, ol := range order {
		if ol.RequestedQty <= 0 {
			continue
		}
		lines := linesByProduct[ol.ProductID]
		if len(lines) == 0 {
			ex.MissingProducts = append(ex.MissingProducts, ol.ProductID)
			continue
		}

		productName := ""
		if r, ok := b.RecipeByID(ol.ProductID); ok {
			productName = r.ProductName
		}

		for _, l := range lines {
			theoretical := float64(ol.RequestedQty) * l.ComponentQty
			target := theoretical * factor

			ex.Detail = append(ex.Detail, internal.DetailRow{
				ProductID:      ol.ProductID,
				ProductName:    productName,
				RequestedQty:   ol.RequestedQty,
				ComponentID:    l.ComponentID,
				ComponentName:  l.ComponentName,
				ComponentQty:   l.ComponentQty,
				ComponentUnit:  l.ComponentUnit,
				TheoreticalQty: theoretical,
				TargetQty:      target,
			})

			key := totalKey{id: l.ComponentID, name: l.ComponentName, unit: l.ComponentUnit}
			t, ok := acc[key]
			if !ok {
				t = &internal.ComponentTotal{
					ComponentID:   l.ComponentID,
					ComponentName: l.ComponentName,
					ComponentUnit: l.ComponentUnit,
				}
				acc[key] = t
			}
			t.TheoreticalQty += theoretical
			t.TargetQty += target
		}
	}

	for _, t := range acc {
		t.TheoreticalFinal, t.FinalUnit = util.ConvertUnit(t.TheoreticalQty, t.ComponentUnit)
		t.TargetFinal, _ = util.ConvertUnit(t.TargetQty, t.ComponentUnit)
		ex.Totals = append(ex.Totals, *t)
	}

	sort.Slice(ex.Totals, func(i, j int) bool {
		ti, tj := ex.Totals[i], ex.Totals[j]
		if ti.ComponentName != tj.ComponentName {
			return ti.ComponentName < tj.ComponentName
		}
		return ti.ComponentID < tj.ComponentID
	})
	sort.Strings(ex.MissingProducts)
	return ex
}
