package mermaid

import "regexp"

// LabelFor returns the quoted label text from the first declaration of id
// (id["..."], id("...") or id{"..."}). The second return is false when the id
// never appears in declaration form, e.g. it only shows up as an edge
// endpoint.
func LabelFor(id, repaired string) (string, bool) {
	if id == "" {
		return "", false
	}
	re := regexp.MustCompile(`(?m)(?:^|[^A-Za-z0-9_])` + regexp.QuoteMeta(id) + `[ \t]*[\[({][ \t]*"([^"]*)"`)
	m := re.FindStringSubmatch(repaired)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Labels collects the declared label for every id known to the index.
// Ids without a declaration are left out.
func Labels(idx *Index, repaired string) map[string]string {
	out := make(map[string]string)
	for _, id := range idx.Nodes() {
		if label, ok := LabelFor(id, repaired); ok {
			out[id] = label
		}
	}
	return out
}
