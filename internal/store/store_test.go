package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Makepad-fr/lister/internal/store/jsonstore"
)

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	kv, err := Open(context.Background(), Options{Kind: KindFile, DataFile: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer kv.Close()

	js, ok := kv.(*jsonstore.Store)
	if !ok {
		t.Fatalf("Open: got %T, want *jsonstore.Store", kv)
	}
	if js.Path() != path {
		t.Errorf("Path: got %s, want %s", js.Path(), path)
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open(context.Background(), Options{Kind: "redis"}); err == nil {
		t.Error("Open: expected error for unknown kind")
	}
}

func TestOpenMySQLBadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Options{Kind: KindMySQL, DSN: "root@tcp(localhost:3306)/"}); err == nil {
		t.Error("Open: expected error for dsn without database")
	}
}
