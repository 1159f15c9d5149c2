package rdfmapper

import (
	"testing"

	"github.com/geoknoesis/rdfcore/rdf"
)

func collectionRegistry() *Registry {
	reg := NewRegistry()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, Both)
	return reg
}

func roundTripCollection(t *testing.T, strategy CollectionStrategy, values []string) []string {
	t.Helper()
	reg := collectionRegistry()
	subject := rdf.NewIRIUnchecked("http://example.org/list-holder")
	p := rdf.NewIRIUnchecked("http://example.org/items")

	ctx := NewSerializationContext(reg)
	b := ctx.Builder(subject)
	if err := b.AddCollection(p, strategy, values); err != nil {
		t.Fatalf("AddCollection: %v", err)
	}
	g := ctx.Graph()

	dctx := NewDeserializationContext(reg, g, CompletenessLenient)
	r := dctx.Reader(subject)
	got, err := RequireCollection[string](r, p, strategy)
	if err != nil {
		t.Fatalf("RequireCollection: %v", err)
	}
	return got
}

func TestCollectionMultiObjectsRoundTrip(t *testing.T) {
	got := roundTripCollection(t, CollectionMultiObjects, []string{"a", "b", "c"})
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %v", got)
	}
}

func TestCollectionRDFListPreservesOrder(t *testing.T) {
	got := roundTripCollection(t, CollectionRDFList, []string{"a", "b", "c"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected [a b c] in order, got %v", got)
	}
}

func TestCollectionRDFSeqPreservesOrder(t *testing.T) {
	got := roundTripCollection(t, CollectionRDFSeq, []string{"x", "y", "z"})
	if len(got) != 3 || got[0] != "x" || got[1] != "y" || got[2] != "z" {
		t.Fatalf("expected [x y z] in order, got %v", got)
	}
}

func TestCollectionRDFBagRoundTrip(t *testing.T) {
	got := roundTripCollection(t, CollectionRDFBag, []string{"p", "q"})
	if len(got) != 2 {
		t.Fatalf("expected 2 values, got %v", got)
	}
}

func TestCollectionRDFAltRoundTrip(t *testing.T) {
	got := roundTripCollection(t, CollectionRDFAlt, []string{"primary", "fallback"})
	if len(got) != 2 || got[0] != "primary" {
		t.Fatalf("expected the first alternative to remain first, got %v", got)
	}
}

func TestGetMapRoundTrip(t *testing.T) {
	reg := collectionRegistry()
	subject := rdf.NewIRIUnchecked("http://example.org/m")
	p := rdf.NewIRIUnchecked("http://example.org/attributes")

	ctx := NewSerializationContext(reg)
	b := ctx.Builder(subject)
	if err := b.AddMap(p, map[string]string{"color": "blue"}); err != nil {
		t.Fatalf("AddMap: %v", err)
	}
	g := ctx.Graph()

	dctx := NewDeserializationContext(reg, g, CompletenessLenient)
	r := dctx.Reader(subject)
	got, err := GetMap[string, string](r, p)
	if err != nil {
		t.Fatalf("GetMap: %v", err)
	}
	if got["color"] != "blue" {
		t.Errorf("expected color=blue, got %v", got)
	}
}
