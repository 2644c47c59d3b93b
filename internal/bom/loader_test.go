package bom

import (
	"os"
	"path/filepath"
	"testing"

	"bomcalc/internal/storage"
)

func TestLoaderCachesByContentHash(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	bomPath := filepath.Join(tmp, "bom.xlsx")
	if err := os.WriteFile(bomPath, mkXLSX(t, fixtureRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(db)

	first, err := loader.Load(bomPath)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first load must parse the file")
	}
	if len(first.Bom.Lines) != 4 {
		t.Fatalf("lines=%d", len(first.Bom.Lines))
	}

	second, err := loader.Load(bomPath)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second load must hit the memo")
	}
	if second.Hash != first.Hash {
		t.Fatalf("hash changed: %s vs %s", second.Hash, first.Hash)
	}

	// A fresh loader on the same db must be served from sqlite without
	// re-parsing.
	third, err := NewLoader(db).Load(bomPath)
	if err != nil {
		t.Fatal(err)
	}
	if !third.Cached {
		t.Fatal("third load must hit the sqlite cache")
	}
	if len(third.Bom.Recipes) != 2 || len(third.Bom.Lines) != 4 {
		t.Fatalf("cached bom differs: %d recipes, %d lines", len(third.Bom.Recipes), len(third.Bom.Lines))
	}
	if _, ok := third.Bom.RecipeByID("P001"); !ok {
		t.Fatal("recipe lookup broken on cached bom")
	}
}

func TestLoaderInvalidatesOnContentChange(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	bomPath := filepath.Join(tmp, "bom.xlsx")
	if err := os.WriteFile(bomPath, mkXLSX(t, fixtureRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(db)
	first, err := loader.Load(bomPath)
	if err != nil {
		t.Fatal(err)
	}

	changed := fixtureRows()
	changed = append(changed, []any{"", "", "", "", "", "", "", "X004", "Sal", 5, "gr", ""})
	if err := os.WriteFile(bomPath, mkXLSX(t, changed), 0o644); err != nil {
		t.Fatal(err)
	}

	second, err := loader.Load(bomPath)
	if err != nil {
		t.Fatal(err)
	}
	if second.Cached {
		t.Fatal("edited file must be re-parsed")
	}
	if second.Hash == first.Hash {
		t.Fatal("hash must change with content")
	}
	if len(second.Bom.Lines) != len(first.Bom.Lines)+1 {
		t.Fatalf("lines=%d", len(second.Bom.Lines))
	}
}

func TestLoaderWithoutDB(t *testing.T) {
	tmp := t.TempDir()
	bomPath := filepath.Join(tmp, "bom.xlsx")
	if err := os.WriteFile(bomPath, mkXLSX(t, fixtureRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(nil)
	res, err := loader.Load(bomPath)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached || len(res.Bom.Lines) != 4 {
		t.Fatalf("unexpected result: cached=%v lines=%d", res.Cached, len(res.Bom.Lines))
	}
}
