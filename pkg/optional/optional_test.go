package optional

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name    string
		val     Value[string]
		present bool
		orElse  string
	}{
		{name: "some", val: Some("5.5.1"), present: true, orElse: "5.5.1"},
		{name: "some empty", val: Some(""), present: true, orElse: ""},
		{name: "none", val: None[string](), present: false, orElse: "<unknown>"},
		{name: "zero", val: Value[string]{}, present: false, orElse: "<unknown>"},
		{name: "non-empty helper", val: NonEmpty(""), present: false, orElse: "<unknown>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.IsPresent(); got != tt.present {
				t.Errorf("IsPresent() = %v, want %v", got, tt.present)
			}
			if got := tt.val.OrElse("<unknown>"); got != tt.orElse {
				t.Errorf("OrElse() = %q, want %q", got, tt.orElse)
			}
		})
	}
}

func TestMap(t *testing.T) {
	n := Map(Some("abc"), func(s string) int { return len(s) })
	if v, ok := n.Get(); !ok || v != 3 {
		t.Errorf("Map(Some) = %v, %v; want 3, true", v, ok)
	}
	if Map(None[string](), func(s string) int { return len(s) }).IsPresent() {
		t.Error("Map(None) should be absent")
	}
}

func TestFlatMap(t *testing.T) {
	got := FlatMap(Some(""), NonEmpty)
	if got.IsPresent() {
		t.Error("FlatMap with NonEmpty(\"\") should be absent")
	}
}

func TestPtr(t *testing.T) {
	if None[int]().Ptr() != nil {
		t.Error("None.Ptr() should be nil")
	}
	p := Some(7).Ptr()
	if p == nil || *p != 7 {
		t.Errorf("Some(7).Ptr() = %v", p)
	}
	if !FromPtr(p).IsPresent() || FromPtr[int](nil).IsPresent() {
		t.Error("FromPtr round trip failed")
	}
}

func TestJSON(t *testing.T) {
	type doc struct {
		A Value[string] `json:"a"`
		B Value[string] `json:"b"`
	}
	data, err := json.Marshal(doc{A: Some("x")})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":"x","b":null}` {
		t.Errorf("Marshal = %s", data)
	}

	var back doc
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if v, ok := back.A.Get(); !ok || v != "x" {
		t.Errorf("A = %q, %v", v, ok)
	}
	if back.B.IsPresent() {
		t.Error("B should be absent")
	}
}

func TestYAML(t *testing.T) {
	type doc struct {
		A Value[string] `yaml:"a"`
		B Value[int]    `yaml:"b"`
	}
	data, err := yaml.Marshal(doc{A: Some("x")})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a: x\nb: null\n" {
		t.Errorf("Marshal = %q", data)
	}

	var back doc
	if err := yaml.Unmarshal([]byte("a: null\nb: 3\n"), &back); err != nil {
		t.Fatal(err)
	}
	if back.A.IsPresent() {
		t.Error("A should be absent")
	}
	if v, ok := back.B.Get(); !ok || v != 3 {
		t.Errorf("B = %d, %v", v, ok)
	}
}
