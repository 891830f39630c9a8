package mermaid

import "regexp"

// reEdge recognizes a directed edge: source id with an optional label and
// optional :::class tag, an arrow run (dash/equals/dot ending in ">"), an
// optional |text| edge label, then the destination id. This is a best-effort
// scan over repaired text, not a grammar parse; unrecognized arrow variants
// are simply missed.
var reEdge = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_]*)(?:\[[^\]\n]*\]|\([^)\n]*\)|\{[^}\n]*\})?(?::::[A-Za-z0-9_-]+)?[ \t]*[-=.]+>[ \t]*(?:\|[^|\n]*\|[ \t]*)?([A-Za-z][A-Za-z0-9_]*)`)

// Index holds the parent/child lookup tables derived from edges in a repaired
// diagram. Child and parent lists preserve first-seen order and are free of
// duplicates. The index is recomputed wholesale whenever the source changes.
type Index struct {
	children map[string][]string
	parents  map[string][]string
	nodes    []string
	seen     map[string]struct{}
}

// BuildIndex scans repaired diagram text for directed edges. Edges that
// reference ids with no declaration of their own are kept; the source data is
// unreliable and referential integrity is not enforced. Cycles are legal and
// just produce mutual parent/child entries.
func BuildIndex(repaired string) *Index {
	idx := &Index{
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		seen:     make(map[string]struct{}),
	}
	// Resume each scan at the destination id rather than the match end so a
	// chain like N1-->N2-->N3 yields both edges.
	for off := 0; off < len(repaired); {
		loc := reEdge.FindStringSubmatchIndex(repaired[off:])
		if loc == nil {
			break
		}
		src := repaired[off+loc[2] : off+loc[3]]
		dst := repaired[off+loc[4] : off+loc[5]]
		idx.add(src, dst)
		off += loc[4]
	}
	return idx
}

func (x *Index) add(src, dst string) {
	x.touch(src)
	x.touch(dst)
	if !contains(x.children[src], dst) {
		x.children[src] = append(x.children[src], dst)
	}
	if !contains(x.parents[dst], src) {
		x.parents[dst] = append(x.parents[dst], src)
	}
}

func (x *Index) touch(id string) {
	if _, ok := x.seen[id]; ok {
		return
	}
	x.seen[id] = struct{}{}
	x.nodes = append(x.nodes, id)
}

// Children returns the direct children of id in first-seen order.
// Unknown ids yield an empty slice, never an error.
func (x *Index) Children(id string) []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.children[id]...)
}

// Parents returns the direct parents of id in first-seen order.
func (x *Index) Parents(id string) []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.parents[id]...)
}

// Nodes returns every id that appears as an edge endpoint, in first-seen order.
func (x *Index) Nodes() []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.nodes...)
}

// Relations is the one-hop neighborhood of a node: direct children plus
// direct parents, never the transitive closure.
type Relations struct {
	Children []string `json:"children"`
	Parents  []string `json:"parents"`
}

// Related returns the nodes one hop away from id in each direction.
func Related(id string, idx *Index) Relations {
	return Relations{
		Children: idx.Children(id),
		Parents:  idx.Parents(id),
	}
}

// Highlight partitions the indexed nodes for UI emphasis: the selected node,
// its one-hop relatives, and everything else.
type Highlight struct {
	Target  string   `json:"target"`
	Related []string `json:"related"`
	Others  []string `json:"others"`
}

// Classify is a pure function of the selection and the index. Related is the
// duplicate-free union of children and parents; Others is every other indexed
// node. Selecting an id the index has never seen marks all nodes as Others.
func Classify(id string, idx *Index) Highlight {
	h := Highlight{Target: id, Related: []string{}, Others: []string{}}
	rel := make(map[string]struct{})
	for _, c := range idx.Children(id) {
		if _, ok := rel[c]; !ok && c != id {
			rel[c] = struct{}{}
			h.Related = append(h.Related, c)
		}
	}
	for _, p := range idx.Parents(id) {
		if _, ok := rel[p]; !ok && p != id {
			rel[p] = struct{}{}
			h.Related = append(h.Related, p)
		}
	}
	for _, n := range idx.Nodes() {
		if n == id {
			continue
		}
		if _, ok := rel[n]; ok {
			continue
		}
		h.Others = append(h.Others, n)
	}
	return h
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
