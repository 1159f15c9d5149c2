package rdfmapper

import (
	"testing"

	"github.com/geoknoesis/rdfcore/rdf"
)

func TestRegistryCloneIsIndependent(t *testing.T) {
	reg := NewRegistry()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, Both)
	clone := reg.Clone()
	if !HasLiteralMapperFor[string](clone) {
		t.Fatal("expected the clone to carry over the source registry's registrations")
	}
	RegisterResourceMapper[*person](clone, personMapper{}, GlobalSubject, Both)
	if HasResourceMapperFor[*person](reg) {
		t.Error("expected registering on the clone to leave the source registry untouched")
	}
}

func TestRegistryWithScopeLeavesSourceUntouched(t *testing.T) {
	reg := NewRegistry()
	scoped := reg.WithScope(func(r *Registry) {
		RegisterLiteralMapper[string](r, stringLiteralMapper{}, Both)
	})
	if !HasLiteralMapperFor[string](scoped) {
		t.Fatal("expected the scoped registry to carry the registration made inside WithScope")
	}
	if HasLiteralMapperFor[string](reg) {
		t.Error("expected the original registry to be unaffected by WithScope")
	}
}

func TestRegistryFreezePreventsFurtherRegistration(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	defer func() {
		if recover() == nil {
			t.Error("expected RegisterLiteralMapper on a frozen registry to panic")
		}
	}()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, Both)
}

func TestDirectionAllows(t *testing.T) {
	cases := []struct {
		dir           Direction
		wantSerialize bool
		want          bool
	}{
		{Both, true, true},
		{Both, false, true},
		{SerializeOnly, true, true},
		{SerializeOnly, false, false},
		{DeserializeOnly, true, false},
		{DeserializeOnly, false, true},
	}
	for _, c := range cases {
		if got := c.dir.allows(c.wantSerialize); got != c.want {
			t.Errorf("%v.allows(%v) = %v, want %v", c.dir, c.wantSerialize, got, c.want)
		}
	}
}

// csvStringsMapper serializes a []string as a single comma-joined
// literal object rather than one triple per element, so a registered
// MultiObjectsMapper is distinguishable from the default multi-objects
// fallback in AddValues/GetValues.
type csvStringsMapper struct{}

func (csvStringsMapper) ToObjects(value interface{}, ctx *SerializationContext) ([]rdf.Term, error) {
	items := value.([]string)
	joined := ""
	for i, s := range items {
		if i > 0 {
			joined += ","
		}
		joined += s
	}
	return []rdf.Term{rdf.NewLiteral(joined)}, nil
}

func (csvStringsMapper) FromObjects(objects []rdf.Term, ctx *DeserializationContext) (interface{}, error) {
	if len(objects) != 1 {
		return nil, &rdf.ConstraintViolationError{Reason: "expected exactly one csv literal object"}
	}
	lit := objects[0].(rdf.Literal)
	var out []string
	start := 0
	s := lit.Lexical()
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out, nil
}

func TestMultiObjectsMapperWiredIntoAddValuesAndGetValues(t *testing.T) {
	reg := NewRegistry()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, Both)
	RegisterMultiObjectsMapper[[]string](reg, csvStringsMapper{})

	subject := rdf.NewIRIUnchecked("http://example.org/alice")
	p := rdf.NewIRIUnchecked("http://example.org/tags")

	ctx := NewSerializationContext(reg)
	b := ctx.Builder(subject)
	if err := b.AddValues(p, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("AddValues: %v", err)
	}
	g := ctx.Graph()
	matches := g.BySubject(subject)
	if len(matches) != 1 {
		t.Fatalf("expected the registered MultiObjectsMapper to emit a single joined triple, got %d triples", len(matches))
	}
	if lit := matches[0].O.(rdf.Literal); lit.Lexical() != "a,b,c" {
		t.Errorf("expected the csv-joined literal \"a,b,c\", got %q", lit.Lexical())
	}

	dctx := NewDeserializationContext(reg, g, CompletenessLenient)
	r := dctx.Reader(subject)
	got, err := GetValues[string](r, p)
	if err != nil {
		t.Fatalf("GetValues: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("expected [a b c] decoded back via FromObjects, got %v", got)
	}
}

// extraFields is a completeness-preservation sink field type distinct
// from rdf.Graph, paired with extraFieldsMapper to prove
// UnmappedTriplesMapper is consulted by AddUnmappedValue/GetUnmappedAs.
// It carries its own subject since ToGraph/FromGraph work over a raw
// graph fragment rooted wherever the sink field's Go representation
// says it should be.
type extraFields struct {
	Subject rdf.Term
	Note    string
}

var extraFieldsNote = rdf.NewIRIUnchecked("http://example.org/note")

type extraFieldsMapper struct{}

func (extraFieldsMapper) ToGraph(value interface{}) (rdf.Graph, error) {
	ef := value.(extraFields)
	tr, err := rdf.NewTriple(ef.Subject, extraFieldsNote, rdf.NewLiteral(ef.Note))
	if err != nil {
		return rdf.Graph{}, err
	}
	return rdf.NewGraph(tr), nil
}

func (extraFieldsMapper) FromGraph(g rdf.Graph) (interface{}, error) {
	for _, tr := range g.Triples() {
		if tr.P.Equal(extraFieldsNote) {
			return extraFields{Subject: tr.S, Note: tr.O.(rdf.Literal).Lexical()}, nil
		}
	}
	return extraFields{}, nil
}

func TestUnmappedTriplesMapperWiredIntoAddAndGetUnmappedValue(t *testing.T) {
	reg := NewRegistry()
	RegisterUnmappedTriplesMapper[extraFields](reg, extraFieldsMapper{})

	subject := rdf.NewIRIUnchecked("http://example.org/alice")
	ctx := NewSerializationContext(reg)
	b := ctx.Builder(subject)
	if err := b.AddUnmappedValue(extraFields{Subject: subject, Note: "hello"}); err != nil {
		t.Fatalf("AddUnmappedValue: %v", err)
	}
	g := ctx.Graph()
	if g.Count() != 1 {
		t.Fatalf("expected AddUnmappedValue to merge in the mapper's single triple, got %d triples", g.Count())
	}

	dctx := NewDeserializationContext(reg, g, CompletenessLenient)
	r := dctx.Reader(subject)
	got, err := GetUnmappedAs[extraFields](r)
	if err != nil {
		t.Fatalf("GetUnmappedAs: %v", err)
	}
	if got.Note != "hello" {
		t.Errorf("expected Note %q, got %q", "hello", got.Note)
	}
}

func TestDirectionErrorOnSerializeOnlyMapperDuringDecode(t *testing.T) {
	reg := NewRegistry()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, SerializeOnly)
	subject := rdf.NewIRIUnchecked("http://example.org/alice")
	p := rdf.NewIRIUnchecked("http://example.org/name")
	tr, err := rdf.NewTriple(subject, p, rdf.NewLiteral("Alice"))
	if err != nil {
		t.Fatalf("NewTriple: %v", err)
	}
	g := rdf.NewGraph(tr)
	ctx := NewDeserializationContext(reg, g, CompletenessLenient)
	r := ctx.Reader(subject)
	_, err = Require[string](r, p)
	if _, ok := err.(*DirectionError); !ok {
		t.Fatalf("expected DirectionError, got %v (%T)", err, err)
	}
}
