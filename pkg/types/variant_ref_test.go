package types

import "testing"

func TestParseVariantRefShapes(t *testing.T) {
	if got := ParseVariantRef("").Kind(); got != VariantRefNone {
		t.Fatalf("empty should parse as none, got %v", got)
	}
	if got := ParseVariantRef("4415").Kind(); got != VariantRefSimple {
		t.Fatalf("bare id should parse as simple, got %v", got)
	}
	if got := ParseVariantRef(`{"DS5.5_Black":"111","default":"222"}`).Kind(); got != VariantRefOptionMap {
		t.Fatalf("json object should parse as option map, got %v", got)
	}
	// malformed json degrades to a simple reference
	if got := ParseVariantRef(`{not json`).Kind(); got != VariantRefSimple {
		t.Fatalf("malformed json should degrade to simple, got %v", got)
	}
}

func TestVariantRefMatches(t *testing.T) {
	simple := ParseVariantRef("4415")
	if !simple.Matches("4415") {
		t.Fatal("simple ref should match its own id")
	}
	if simple.Matches("999") {
		t.Fatal("simple ref should not match a different id")
	}

	mapped := ParseVariantRef(`{"DS5.5_Black":"111","DS5.5_White":"112"}`)
	if !mapped.Matches("111") || !mapped.Matches("112") {
		t.Fatal("option map should match any of its values")
	}
	if mapped.Matches("999") {
		t.Fatal("option map should not match an absent id")
	}

	if ParseVariantRef("").Matches("") {
		t.Fatal("empty ids should never match")
	}
}

func TestVariantRefResolve(t *testing.T) {
	mapped := ParseVariantRef(`{"DS5.5_Black":"111","default":"222"}`)

	if id, ok := mapped.Resolve("DS5.5_Black"); !ok || id != "111" {
		t.Fatalf("expected option key hit, got %q %v", id, ok)
	}
	if id, ok := mapped.Resolve("DS6_Red"); !ok || id != "222" {
		t.Fatalf("expected default fallback, got %q %v", id, ok)
	}

	simple := ParseVariantRef("4415")
	if id, ok := simple.Resolve("anything"); !ok || id != "4415" {
		t.Fatalf("simple ref should resolve to its id, got %q %v", id, ok)
	}

	if _, ok := ParseVariantRef(`{"a":"1"}`).Resolve("b"); ok {
		t.Fatal("missing key without default should not resolve")
	}
}
