package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"bomcalc/internal"
)

// DB caches normalized BOM tables keyed by source content hash, so a
// recipe book is parsed once and survives process restarts until the
// source file changes.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS bom_sources (
  hash TEXT PRIMARY KEY,
  path TEXT NOT NULL,
  loadedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recipes (
  hash TEXT NOT NULL,
  productId TEXT NOT NULL,
  productName TEXT,
  productQty REAL NOT NULL DEFAULT 0,
  productUnit TEXT,
  reference TEXT,
  recipeType TEXT,
  recipeCost REAL NOT NULL DEFAULT 0,
  unitPrice REAL NOT NULL DEFAULT 0,
  PRIMARY KEY (hash, productId)
);

CREATE TABLE IF NOT EXISTS bom_lines (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  hash TEXT NOT NULL,
  productId TEXT NOT NULL,
  componentId TEXT NOT NULL,
  componentName TEXT,
  componentQty REAL NOT NULL DEFAULT 0,
  componentUnit TEXT
);
CREATE INDEX IF NOT EXISTS idx_bom_lines_hash ON bom_lines(hash);
`
	_, err := d.conn.Exec(schema)
	return err
}

// HasBom reports whether a normalized BOM for the given content hash is
// already cached.
func (d *DB) HasBom(hash string) (bool, error) {
	var one int
	err := d.conn.QueryRow(`SELECT 1 FROM bom_sources WHERE hash = ?`, hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveBom replaces the cached tables for one source hash.
func (d *DB) SaveBom(hash, path string, recipes []internal.Recipe, lines []internal.BomLine) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM recipes WHERE hash = ?`,
		`DELETE FROM bom_lines WHERE hash = ?`,
		`DELETE FROM bom_sources WHERE hash = ?`,
	} {
		if _, err := tx.Exec(stmt, hash); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`INSERT INTO bom_sources (hash, path) VALUES (?, ?)`, hash, path); err != nil {
		return err
	}

	for _, r := range recipes {
		_, err := tx.Exec(`
INSERT INTO recipes (hash, productId, productName, productQty, productUnit, reference, recipeType, recipeCost, unitPrice)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			hash, r.ProductID, r.ProductName, r.ProductQty, r.ProductUnit, r.Reference, r.RecipeType, r.RecipeCost, r.UnitPrice)
		if err != nil {
			return err
		}
	}

	for _, l := range lines {
		_, err := tx.Exec(`
INSERT INTO bom_lines (hash, productId, componentId, componentName, componentQty, componentUnit)
VALUES (?, ?, ?, ?, ?, ?)`,
			hash, l.ProductID, l.ComponentID, l.ComponentName, l.ComponentQty, l.ComponentUnit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBom loads the cached tables for one source hash. The boolean is
// false when the hash is not cached.
func (d *DB) GetBom(hash string) ([]internal.Recipe, []internal.BomLine, bool, error) {
	ok, err := d.HasBom(hash)
	if err != nil || !ok {
		return nil, nil, false, err
	}

	rows, err := d.conn.Query(`
SELECT productId, productName, productQty, productUnit, reference, recipeType, recipeCost, unitPrice
FROM recipes WHERE hash = ? ORDER BY productId`, hash)
	if err != nil {
		return nil, nil, false, err
	}
	defer rows.Close()

	recipes := []internal.Recipe{}
	for rows.Next() {
		var r internal.Recipe
		if err := rows.Scan(&r.ProductID, &r.ProductName, &r.ProductQty, &r.ProductUnit, &r.Reference, &r.RecipeType, &r.RecipeCost, &r.UnitPrice); err != nil {
			return nil, nil, false, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, err
	}

	lineRows, err := d.conn.Query(`
SELECT productId, componentId, componentName, componentQty, componentUnit
FROM bom_lines WHERE hash = ? ORDER BY id`, hash)
	if err != nil {
		return nil, nil, false, err
	}
	defer lineRows.Close()

	lines := []internal.BomLine{}
	for lineRows.Next() {
		var l internal.BomLine
		if err := lineRows.Scan(&l.ProductID, &l.ComponentID, &l.ComponentName, &l.ComponentQty, &l.ComponentUnit); err != nil {
			return nil, nil, false, err
		}
		lines = append(lines, l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, nil, false, err
	}

	return recipes, lines, true, nil
}
