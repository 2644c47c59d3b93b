package pipeline

import (
	"sort"

	"bomcalc/internal"
	"bomcalc/internal/util"
)

// KpiReport joins exploded component totals with reported actual
// consumption into per-component shrinkage rows plus the global picture.
type KpiReport struct {
	Rows    []internal.KpiRow
	Summary internal.KpiSummary
}

// ComputeKpi left-joins actuals onto the component totals; components
// without a reported actual count as zero consumption. convertActuals
// applies the same raw-unit conversion factor to the actual quantities:
// the caller must say whether actuals were reported in raw recipe units
// (gr/ml) or already in final units, the engine never guesses.
//
// The global shrinkage is sum-then-ratio over the summed finals. An
// average of the per-row percentages would overweight components with
// tiny theoretical quantities.
func ComputeKpi(totals []internal.ComponentTotal, actuals []internal.ActualConsumption, convertActuals bool) KpiReport {
	actualByID := map[string]float64{}
	for _, a := range actuals {
		actualByID[a.ComponentID] += a.ActualQty
	}

	report := KpiReport{}
	for _, t := range totals {
		actual := actualByID[t.ComponentID]
		if convertActuals {
			actual *= util.UnitFactor(t.ComponentUnit)
		}

		row := internal.KpiRow{
			ComponentID:      t.ComponentID,
			ComponentName:    t.ComponentName,
			FinalUnit:        t.FinalUnit,
			TheoreticalFinal: t.TheoreticalFinal,
			TargetFinal:      t.TargetFinal,
			ActualFinal:      actual,
			GapVsTheoretical: actual - t.TheoreticalFinal,
			GapVsTarget:      actual - t.TargetFinal,
		}
		if t.TheoreticalFinal != 0 {
			row.ShrinkagePct = util.FloatPtr((actual - t.TheoreticalFinal) / t.TheoreticalFinal)
		}

		report.Rows = append(report.Rows, row)
		report.Summary.TotalTheoretical += t.TheoreticalFinal
		report.Summary.TotalTarget += t.TargetFinal
		report.Summary.TotalActual += actual
	}

	if report.Summary.TotalTheoretical != 0 {
		report.Summary.GlobalShrinkage = util.FloatPtr(
			(report.Summary.TotalActual - report.Summary.TotalTheoretical) / report.Summary.TotalTheoretical)
	}
	report.Summary.GlobalGapTarget = report.Summary.TotalActual - report.Summary.TotalTarget

	// Worst shrinkage first; rows without a defined percentage sink to
	// the bottom.
	sort.SliceStable(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i].ShrinkagePct, report.Rows[j].ShrinkagePct
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return report
}
