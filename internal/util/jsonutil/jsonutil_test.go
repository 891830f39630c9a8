package jsonutil

import "testing"

func TestUnmarshalFlexDirect(t *testing.T) {
	var v struct {
		Answer string `json:"answer"`
	}
	if err := UnmarshalFlex([]byte(`{"answer":"ok"}`), &v); err != nil {
		t.Fatalf("direct: %v", err)
	}
	if v.Answer != "ok" {
		t.Fatalf("answer = %q", v.Answer)
	}
}

func TestUnmarshalFlexDoubleEscaped(t *testing.T) {
	var v struct {
		Guide string `json:"guide"`
	}
	raw := []byte(`"{\"guide\":\"a \\u003e b\"}"`)
	if err := UnmarshalFlex(raw, &v); err != nil {
		t.Fatalf("double escaped: %v", err)
	}
	if v.Guide != "a > b" {
		t.Fatalf("guide = %q", v.Guide)
	}
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"d": "A --> B"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"A --> B"}` {
		t.Fatalf("got %s", b)
	}
}
