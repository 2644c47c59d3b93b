package pipeline

import (
	"testing"

	"bomcalc/internal"
)

func TestComputeSectionToggles(t *testing.T) {
	order := []internal.OrderLine{{ProductID: "P001", RequestedQty: 1}}

	res := Compute(fixtureBom(), order, Options{})
	if res.Costs != nil {
		t.Fatal("cost section must be absent when disabled")
	}
	if res.Kpi != nil {
		t.Fatal("kpi section must be absent without actuals")
	}

	res = Compute(fixtureBom(), order, Options{
		ShowCosts: true,
		Actuals:   []internal.ActualConsumption{{ComponentID: "X001", ActualQty: 0.2}},
	})
	if res.Costs == nil || res.Kpi == nil {
		t.Fatal("enabled sections must be present")
	}
}

func TestComputeIsPure(t *testing.T) {
	order := []internal.OrderLine{{ProductID: "P001", RequestedQty: 2}}
	opts := Options{WasteFraction: 0.10, ShowCosts: true, ApplyWasteToCosts: true}

	a := Compute(fixtureBom(), order, opts)
	b := Compute(fixtureBom(), order, opts)

	if len(a.Explosion.Totals) != len(b.Explosion.Totals) {
		t.Fatal("repeated computation differs")
	}
	for i := range a.Explosion.Totals {
		if a.Explosion.Totals[i] != b.Explosion.Totals[i] {
			t.Fatalf("totals differ at %d: %+v vs %+v", i, a.Explosion.Totals[i], b.Explosion.Totals[i])
		}
	}
	if !a.Costs.Summary.TotalTheoretical.Equal(b.Costs.Summary.TotalTheoretical) {
		t.Fatal("cost totals differ")
	}
}
