package snapapi

import (
	"encoding/json"
	"testing"
)

func TestValueDecodesAllKinds(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"s":"x","n":1.5,"i":42,"b":true,"z":null,"a":[1,"two",{"k":false}]}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Kind() != KindObject || v.Len() != 6 {
		t.Fatalf("unexpected value %s", v)
	}
	kinds := map[string]Kind{"s": KindString, "n": KindNumber, "i": KindNumber, "b": KindBool, "z": KindNull, "a": KindArray}
	for key, want := range kinds {
		got, ok := v.Get(key)
		if !ok || got.Kind() != want {
			t.Fatalf("%s: kind %s, want %s", key, got.Kind(), want)
		}
	}
	n, _ := v.Get("n")
	if _, ok := n.AsInt64(); ok {
		t.Fatalf("1.5 must not read as int")
	}
	if f, _ := n.AsFloat64(); f != 1.5 {
		t.Fatalf("AsFloat64 = %v", f)
	}
	arr, _ := v.Get("a")
	third, _ := arr.Index(2)
	k, _ := third.Get("k")
	if b, ok := k.AsBool(); !ok || b {
		t.Fatalf("nested bool = %v", k)
	}
	if _, ok := arr.Index(3); ok {
		t.Fatalf("index out of range should fail")
	}
}

func TestValueMarshalIsCanonical(t *testing.T) {
	v := ObjectValue(map[string]Value{
		"b": ArrayValue(IntValue(1), NumberValue(2.5), Null()),
		"a": StringValue("x\"y"),
		"c": BoolValue(false),
	})
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":"x\"y","b":[1,2.5,null],"c":false}`
	if string(raw) != want {
		t.Fatalf("got %s, want %s", raw, want)
	}
}

func TestValueOfAndDecode(t *testing.T) {
	type page struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	v, err := ValueOf(page{Title: "T", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("ValueOf: %v", err)
	}
	if got := v.Keys(); len(got) != 2 || got[0] != "tags" || got[1] != "title" {
		t.Fatalf("Keys = %v", got)
	}
	var out page
	if err := v.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Title != "T" || len(out.Tags) != 2 {
		t.Fatalf("Decode = %+v", out)
	}
	plain, ok := v.Interface().(map[string]any)
	if !ok || plain["title"] != "T" {
		t.Fatalf("Interface = %#v", v.Interface())
	}
}

func TestValueRejectsTrailingData(t *testing.T) {
	var v Value
	if err := v.UnmarshalJSON([]byte(`1 2`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}
