package storage

import (
	"path/filepath"
	"testing"

	"bomcalc/internal"
)

func TestSaveGetBom(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	recipes := []internal.Recipe{
		{ProductID: "P001", ProductName: "Pizza", ProductQty: 1, ProductUnit: "unidad", Reference: "REF1", RecipeType: "PROD", RecipeCost: 10, UnitPrice: 5},
		{ProductID: "P002", ProductName: "Torta", RecipeCost: 20},
	}
	lines := []internal.BomLine{
		{ProductID: "P001", ComponentID: "X001", ComponentName: "Harina", ComponentQty: 200, ComponentUnit: "gr"},
		{ProductID: "P001", ComponentID: "X002", ComponentName: "Queso", ComponentQty: 100, ComponentUnit: "gr"},
	}

	ok, err := db.HasBom("h1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("empty db must not report a cached bom")
	}

	if err := db.SaveBom("h1", "data/bom.xlsx", recipes, lines); err != nil {
		t.Fatal(err)
	}

	gotRecipes, gotLines, ok, err := db.GetBom("h1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("saved bom not found")
	}
	if len(gotRecipes) != 2 || len(gotLines) != 2 {
		t.Fatalf("got %d recipes, %d lines", len(gotRecipes), len(gotLines))
	}
	if gotRecipes[0] != recipes[0] {
		t.Fatalf("recipe round trip: got %+v want %+v", gotRecipes[0], recipes[0])
	}
	if gotLines[1] != lines[1] {
		t.Fatalf("line round trip: got %+v want %+v", gotLines[1], lines[1])
	}
}

func TestSaveBomReplaces(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	lines := []internal.BomLine{{ProductID: "P001", ComponentID: "X001"}}
	if err := db.SaveBom("h1", "a.xlsx", nil, lines); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveBom("h1", "a.xlsx", nil, lines[:0]); err != nil {
		t.Fatal(err)
	}

	_, gotLines, ok, err := db.GetBom("h1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if len(gotLines) != 0 {
		t.Fatalf("stale lines survived: %+v", gotLines)
	}
}
