package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseOrderSpec(t *testing.T) {
	order, err := ParseOrderSpec("P001=3, P002=2,,P003=0")
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 {
		t.Fatalf("order=%+v", order)
	}
	if order[0].ProductID != "P001" || order[0].RequestedQty != 3 {
		t.Fatalf("order[0]=%+v", order[0])
	}
	if order[2].RequestedQty != 0 {
		t.Fatalf("zero quantities are kept for the exploder to drop: %+v", order[2])
	}
}

func TestParseOrderSpecErrors(t *testing.T) {
	for _, spec := range []string{"P001", "P001=x", "P001=-1", "=3=4"} {
		t.Run(spec, func(t *testing.T) {
			if _, err := ParseOrderSpec(spec); err == nil {
				t.Fatalf("expected error for %q", spec)
			}
		})
	}
}

func TestReadOrderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedido.csv")
	content := "Producto;Cantidad_pedida\nP001;3\nP002;no\n;5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	order, err := ReadOrderFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 {
		t.Fatalf("order=%+v", order)
	}
	if order[0].ProductID != "P001" || order[0].RequestedQty != 3 {
		t.Fatalf("order[0]=%+v", order[0])
	}
	if order[1].RequestedQty != 0 {
		t.Fatalf("non-numeric quantity must coerce to zero: %+v", order[1])
	}
}

func TestReadOrderFileMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedido.csv")
	if err := os.WriteFile(path, []byte("Foo,Bar\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadOrderFile(path); err == nil {
		t.Fatal("expected error")
	}
}
