package pipeline

import (
	"github.com/shopspring/decimal"

	"bomcalc/internal"
	"bomcalc/internal/bom"
)

// CostReport is the per-product cost rollup plus its grand totals.
type CostReport struct {
	Lines   []internal.CostLine
	Summary internal.CostSummary
}

// RollupCosts prices an order against the recipe catalog. A product
// missing from the catalog yields a line with nil cost fields rather
// than an error, and contributes nothing to the totals. Unit cost is
// recipe cost over unit price, undefined (nil) when the unit price is
// zero. When applyWaste is false the target cost is nil on every line:
// "not computed" is distinct from a computed zero.
func RollupCosts(b *bom.Normalized, order []internal.OrderLine, waste float64, applyWaste bool) CostReport {
	factor := decimal.NewFromFloat(1 + waste)

	report := CostReport{Summary: internal.CostSummary{TotalTheoretical: decimal.Zero}}
	totalTarget := decimal.Zero
	for _, ol := range order {
		if ol.RequestedQty <= 0 {
			continue
		}

		line := internal.CostLine{ProductID: ol.ProductID, RequestedQty: ol.RequestedQty}

		r, ok := b.RecipeByID(ol.ProductID)
		if !ok {
			report.Lines = append(report.Lines, line)
			continue
		}

		line.ProductName = r.ProductName
		recipeCost := decimal.NewFromFloat(r.RecipeCost)
		line.RecipeCost = &recipeCost

		theoretical := recipeCost.Mul(decimal.NewFromInt(int64(ol.RequestedQty)))
		line.CostTheoretical = &theoretical
		report.Summary.TotalTheoretical = report.Summary.TotalTheoretical.Add(theoretical)

		if r.UnitPrice != 0 {
			unitCost := recipeCost.Div(decimal.NewFromFloat(r.UnitPrice))
			line.UnitCost = &unitCost
		}

		if applyWaste {
			target := theoretical.Mul(factor)
			line.CostTarget = &target
			totalTarget = totalTarget.Add(target)
		}

		report.Lines = append(report.Lines, line)
	}

	if applyWaste {
		report.Summary.TotalTarget = &totalTarget
	}
	return report
}
