// Package syllabus holds the static topic catalog the study views are built
// from. A default catalog ships embedded; deployments can point SYLLABUS_PATH
// at their own TOML file.
package syllabus

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default_topics.toml
var defaultTOML []byte

// Topic is one syllabus entry.
type Topic struct {
	ID      string `json:"id" toml:"id"`
	Title   string `json:"title" toml:"title"`
	Block   string `json:"block" toml:"block"`
	Summary string `json:"summary" toml:"summary"`
}

// Catalog is an ordered, id-addressable set of topics.
type Catalog struct {
	topics []Topic
	byID   map[string]Topic
}

type catalogFile struct {
	Topics []Topic `toml:"topic"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := parse(defaultTOML)
	if err != nil {
		// The embedded file is part of the build; a parse failure here is a
		// programming error.
		panic(fmt.Sprintf("syllabus: embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a TOML file. An empty path returns the default.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("syllabus: read %s: %w", path, err)
	}
	c, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("syllabus: parse %s: %w", path, err)
	}
	return c, nil
}

func parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("no topics defined")
	}
	c := &Catalog{byID: make(map[string]Topic, len(f.Topics))}
	for _, t := range f.Topics {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" || strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("topic with empty id or title")
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		c.byID[t.ID] = t
		c.topics = append(c.topics, t)
	}
	return c, nil
}

// Topics returns all topics in file order.
func (c *Catalog) Topics() []Topic {
	return append([]Topic(nil), c.topics...)
}

// Get looks up a topic by id.
func (c *Catalog) Get(id string) (Topic, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Len reports the number of topics.
func (c *Catalog) Len() int { return len(c.topics) }
