package pipeline

import (
	"bomcalc/internal"
	"bomcalc/internal/bom"
)

// Options carries everything a computation pass depends on besides the
// BOM and the order itself. WasteFraction is already parsed.
type Options struct {
	WasteFraction     float64
	ShowCosts         bool
	ApplyWasteToCosts bool

	// Actuals, when non-nil, enables the KPI section. ConvertActuals
	// says the reported quantities are in raw recipe units (gr/ml) and
	// must be normalized the same way as the totals.
	Actuals        []internal.ActualConsumption
	ConvertActuals bool
}

// Result is one full computation pass. Costs is nil when the cost
// section is disabled; Kpi is nil when no actuals were supplied.
type Result struct {
	Explosion Explosion
	Costs     *CostReport
	Kpi       *KpiReport
}

// Compute recalculates everything from scratch for the given inputs.
// It holds no state: the interactive shell re-invokes it on every input
// change, and two calls with equal inputs yield equal results.
func Compute(b *bom.Normalized, order []internal.OrderLine, opts Options) *Result {
	res := &Result{Explosion: Explode(b, order, opts.WasteFraction)}

	if opts.ShowCosts {
		costs := RollupCosts(b, order, opts.WasteFraction, opts.ApplyWasteToCosts)
		res.Costs = &costs
	}

	if opts.Actuals != nil {
		kpi := ComputeKpi(res.Explosion.Totals, opts.Actuals, opts.ConvertActuals)
		res.Kpi = &kpi
	}

	return res
}
