package syllabus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatalf("embedded catalog is empty")
	}
	topic, ok := c.Get("t01")
	if !ok {
		t.Fatalf("t01 missing from default catalog")
	}
	if topic.Title == "" || topic.Block == "" {
		t.Fatalf("t01 incomplete: %+v", topic)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.toml")
	content := `
[[topic]]
id = "x1"
title = "Tema de prueba"
block = "Bloque"
summary = "Resumen."
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}
	if _, ok := c.Get("x1"); !ok {
		t.Fatalf("x1 missing")
	}
}

func TestLoadEmptyPathFallsBack(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatalf("expected default catalog")
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.toml")
	content := `
[[topic]]
id = "x1"
title = "Uno"

[[topic]]
id = "x1"
title = "Dos"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
