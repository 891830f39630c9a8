package artifact

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "t01", "material.json", []byte(`{"guide":"g"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "t01", "quiz.json", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "t01", "material.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"guide":"g"}` {
		t.Fatalf("content = %q", got)
	}

	names, err := s.List(ctx, "t01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"material.json", "quiz.json"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestDiskStoreMissingObject(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Get(context.Background(), "t01", "nope.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDiskStoreListEmptyTopic(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	names, err := s.List(context.Background(), "t99")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("names = %v", names)
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Put(context.Background(), "..", "x", []byte("y")); err == nil {
		t.Fatalf("expected traversal rejection")
	}
}
