package mermaid

import (
	"reflect"
	"testing"
)

func TestBuildIndexChain(t *testing.T) {
	idx := BuildIndex("graph LR\nN1-->N2\nN2-->N3")
	if got := idx.Children("N1"); !reflect.DeepEqual(got, []string{"N2"}) {
		t.Fatalf("children(N1) = %v", got)
	}
	if got := idx.Parents("N3"); !reflect.DeepEqual(got, []string{"N2"}) {
		t.Fatalf("parents(N3) = %v", got)
	}
	rel := Related("N2", idx)
	if !reflect.DeepEqual(rel.Children, []string{"N3"}) || !reflect.DeepEqual(rel.Parents, []string{"N1"}) {
		t.Fatalf("related(N2) = %+v", rel)
	}
}

func TestBuildIndexChainOnOneLine(t *testing.T) {
	idx := BuildIndex("graph LR\nA-->B-->C")
	if got := idx.Children("B"); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("children(B) = %v", got)
	}
	if got := idx.Parents("B"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("parents(B) = %v", got)
	}
}

func TestBuildIndexSymmetry(t *testing.T) {
	repaired := Repair("graph TD\nA-->B\nB==>C\nC-.->A\nA-->C\nB-->B")
	idx := BuildIndex(repaired)
	for _, a := range idx.Nodes() {
		for _, b := range idx.Children(a) {
			if !contains(idx.Parents(b), a) {
				t.Fatalf("%s in children(%s) but %s not in parents(%s)", b, a, a, b)
			}
		}
		for _, b := range idx.Parents(a) {
			if !contains(idx.Children(b), a) {
				t.Fatalf("%s in parents(%s) but %s not in children(%s)", b, a, a, b)
			}
		}
	}
}

func TestBuildIndexLabeledAndClassedEndpoints(t *testing.T) {
	idx := BuildIndex("graph LR\nN1[\"Tema\"]:::main --> N2[\"Sub\"]:::sub")
	if got := idx.Children("N1"); !reflect.DeepEqual(got, []string{"N2"}) {
		t.Fatalf("children(N1) = %v", got)
	}
	// Style class names must not be indexed as nodes.
	if contains(idx.Nodes(), "main") || contains(idx.Nodes(), "sub") {
		t.Fatalf("class names leaked into node set: %v", idx.Nodes())
	}
}

func TestBuildIndexArrowVariantsAndEdgeLabels(t *testing.T) {
	idx := BuildIndex("graph LR\nA==>B\nB-.->C\nC-->|define|D")
	cases := map[string]string{"A": "B", "B": "C", "C": "D"}
	for src, dst := range cases {
		if !contains(idx.Children(src), dst) {
			t.Fatalf("missing edge %s->%s: %v", src, dst, idx.Children(src))
		}
	}
}

func TestBuildIndexDeduplicates(t *testing.T) {
	idx := BuildIndex("graph LR\nA-->B\nA-->B\nA-->C")
	if got := idx.Children("A"); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("children(A) = %v", got)
	}
	if got := idx.Parents("B"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("parents(B) = %v", got)
	}
}

func TestBuildIndexCyclesAreLegal(t *testing.T) {
	idx := BuildIndex("graph LR\nA-->B\nB-->A")
	if !contains(idx.Children("A"), "B") || !contains(idx.Children("B"), "A") {
		t.Fatalf("cycle edges missing: %v / %v", idx.Children("A"), idx.Children("B"))
	}
}

func TestIndexUnknownIDs(t *testing.T) {
	idx := BuildIndex("graph LR\nA-->B")
	if got := idx.Children("zzz"); len(got) != 0 {
		t.Fatalf("children(zzz) = %v", got)
	}
	if got := idx.Parents("zzz"); len(got) != 0 {
		t.Fatalf("parents(zzz) = %v", got)
	}
}

func TestClassifyOneHopOnly(t *testing.T) {
	idx := BuildIndex("graph LR\nN1-->N2\nN2-->N3\nN3-->N4")
	h := Classify("N2", idx)
	if h.Target != "N2" {
		t.Fatalf("target = %q", h.Target)
	}
	if !reflect.DeepEqual(h.Related, []string{"N3", "N1"}) {
		t.Fatalf("related = %v", h.Related)
	}
	// N4 is two hops away and must stay de-emphasized.
	if !reflect.DeepEqual(h.Others, []string{"N4"}) {
		t.Fatalf("others = %v", h.Others)
	}
}

func TestClassifyUnknownSelection(t *testing.T) {
	idx := BuildIndex("graph LR\nA-->B")
	h := Classify("nope", idx)
	if len(h.Related) != 0 {
		t.Fatalf("related = %v", h.Related)
	}
	if !reflect.DeepEqual(h.Others, []string{"A", "B"}) {
		t.Fatalf("others = %v", h.Others)
	}
}

func TestLabels(t *testing.T) {
	repaired := Repair("graph LR\nN1[\"uno\"]-->N2\nN2-->N3[\"tres\"]")
	idx := BuildIndex(repaired)
	got := Labels(idx, repaired)
	want := map[string]string{"N1": "uno", "N3": "tres"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v", got)
	}
}
