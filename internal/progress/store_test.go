package progress

import (
	"context"
	"reflect"
	"testing"
)

// storeConformance exercises the Store contract against any backend.
func storeConformance(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "progress/t01", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "progress/t02", []byte(`{"b":2}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "material/t01", []byte("not json")); err != nil {
		t.Fatalf("set non-json: %v", err)
	}

	v, ok, err := s.Get(ctx, "progress/t01")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"a":1}` {
		t.Fatalf("value = %q", v)
	}
	v, ok, err = s.Get(ctx, "material/t01")
	if err != nil || !ok || string(v) != "not json" {
		t.Fatalf("non-json roundtrip: %q ok=%v err=%v", v, ok, err)
	}

	keys, err := s.List(ctx, "progress/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"progress/t01", "progress/t02"}) {
		t.Fatalf("keys = %v", keys)
	}

	if err := s.Delete(ctx, "progress/t01"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "progress/t01"); ok {
		t.Fatalf("expected miss after delete")
	}
	// Deleting an absent key is not an error.
	if err := s.Delete(ctx, "progress/t01"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeConformance(t, NewMemoryStore())
}

func TestDiskStore(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	storeConformance(t, s)
}

func TestDiskStoreSurvivesReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	s, err := NewDiskStore(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Set(ctx, "progress/t01", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	reopened, err := NewDiskStore(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := reopened.Get(ctx, "progress/t01")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("after reopen: %q ok=%v err=%v", v, ok, err)
	}
}
