package sqliteStore

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Set(ctx, "docquery:documents", `{"version":2}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "docquery:documents", `{"version":3}`); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	val, found, err := reopened.Get(ctx, "docquery:documents")
	if err != nil || !found || val != `{"version":3}` {
		t.Errorf("got %q found=%v err=%v", val, found, err)
	}

	if err := reopened.Remove(ctx, "docquery:documents"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := reopened.Get(ctx, "docquery:documents"); found {
		t.Error("value still present after Remove")
	}
}
