package bom

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"bomcalc/internal/storage"
)

// Loader owns the memoization of normalized BOMs. The cache key is the
// SHA-256 of the file contents, so editing the source invalidates the
// entry and a mere re-save of identical bytes does not.
type Loader struct {
	db   *storage.DB
	memo map[string]*Normalized
}

// LoadResult reports where a Load was served from, for operator output.
type LoadResult struct {
	Bom    *Normalized
	Hash   string
	Cached bool
}

func NewLoader(db *storage.DB) *Loader {
	return &Loader{db: db, memo: map[string]*Normalized{}}
}

func (l *Loader) Load(path string) (LoadResult, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, err
	}
	sum := sha256.Sum256(blob)
	hash := hex.EncodeToString(sum[:])

	if n, ok := l.memo[hash]; ok {
		return LoadResult{Bom: n, Hash: hash, Cached: true}, nil
	}

	if l.db != nil {
		recipes, lines, ok, err := l.db.GetBom(hash)
		if err != nil {
			return LoadResult{}, err
		}
		if ok {
			n := NewNormalized(recipes, lines)
			l.memo[hash] = n
			return LoadResult{Bom: n, Hash: hash, Cached: true}, nil
		}
	}

	raw, err := Parse(blob)
	if err != nil {
		return LoadResult{}, err
	}
	n := Normalize(raw)

	if l.db != nil {
		if err := l.db.SaveBom(hash, path, n.Recipes, n.Lines); err != nil {
			return LoadResult{}, err
		}
	}
	l.memo[hash] = n
	return LoadResult{Bom: n, Hash: hash, Cached: false}, nil
}
