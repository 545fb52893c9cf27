package canonical

import (
	"strings"
	"testing"
)

func TestMarshalSortsKeys(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1}
	b := map[string]any{"a": 1, "b": 2}

	ba, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(ba) != string(bb) {
		t.Errorf("canonical form depends on key order: %s vs %s", ba, bb)
	}
	if string(ba) != `{"a":1,"b":2}` {
		t.Errorf("unexpected canonical form: %s", ba)
	}
}

func TestMarshalNested(t *testing.T) {
	v := map[string]any{
		"outer": map[string]any{"z": "last", "a": "first"},
		"list":  []any{1, "two", true, nil},
	}
	got, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"list":[1,"two",true,null],"outer":{"a":"first","z":"last"}}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestMarshalNoHTMLEscaping(t *testing.T) {
	got, err := Marshal(map[string]any{"k": "a<b>&c"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"k":"a<b>&c"}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
	if strings.Contains(string(got), `\u003c`) {
		t.Errorf("canonical form must not HTML-escape: %s", got)
	}
}

func TestMarshalRejectsUnsupported(t *testing.T) {
	if _, err := Marshal(map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestSumPrefixedFormat(t *testing.T) {
	h := SumPrefixed([]byte("x"))
	if !strings.HasPrefix(h, "sha256:") {
		t.Errorf("hash missing algorithm prefix: %s", h)
	}
	if len(h) != len("sha256:")+64 {
		t.Errorf("unexpected hash length: %d", len(h))
	}
}

func TestHashValueDeterministic(t *testing.T) {
	v := map[string]any{
		"raw_sha256": "sha256:abc",
		"locator":    map[string]any{"kind": "line_range", "start": 1, "end": 2},
		"split":      map[string]any{"strategy": "line_window", "index": 0, "total": 1, "window": 400},
	}
	first, err := HashValue(v)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := HashValue(v)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("hash not deterministic: %s vs %s", first, again)
		}
	}
}
