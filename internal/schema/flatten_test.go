package schema

import (
	"errors"
	"testing"
)

func parse(t *testing.T, doc *Document, payload string) Value {
	t.Helper()
	v, err := doc.Parse([]byte(payload))
	if err != nil {
		t.Fatalf("parse %q: %v", payload, err)
	}
	return v
}

func TestFlattenNested(t *testing.T) {
	var doc Document
	v := parse(t, &doc, `{"a":1,"b":{"c":"x","d":{"e":true}},"f":2.5}`)

	got, err := Flatten(v)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	want := []string{"a", "b.c", "b.d.e", "f"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFlattenEmptyStruct(t *testing.T) {
	var doc Document
	v := parse(t, &doc, `{}`)
	got, err := Flatten(v)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}

func TestFlattenEmptyBranchContributesNothing(t *testing.T) {
	var doc Document
	v := parse(t, &doc, `{"a":1,"b":{},"c":2}`)
	got, err := Flatten(v)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	want := []string{"a", "c"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFlattenDeterministic(t *testing.T) {
	payload := `{"z":1,"a":{"m":2,"b":3},"k":4}`
	var doc Document
	first, err := Flatten(parse(t, &doc, payload))
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Flatten(parse(t, &doc, payload))
		if err != nil {
			t.Fatalf("flatten: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %v vs %v", i, again, first)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d path %d: %q vs %q", i, j, again[j], first[j])
			}
		}
	}
	// document order is preserved, not sorted
	if first[0] != "z" || first[1] != "a.m" || first[2] != "a.b" || first[3] != "k" {
		t.Fatalf("unexpected order: %v", first)
	}
}

func TestParseNotStructured(t *testing.T) {
	var doc Document
	for _, payload := range []string{`42`, `"text"`, `[1,2]`, `true`, `not json`} {
		if _, err := doc.Parse([]byte(payload)); !errors.Is(err, ErrNotStructured) {
			t.Fatalf("payload %q: want ErrNotStructured, got %v", payload, err)
		}
	}
}

func TestFlattenArrayIsLeaf(t *testing.T) {
	var doc Document
	v := parse(t, &doc, `{"a":[1,2,3]}`)
	got, err := Flatten(v)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v", got)
	}
}
