package rdfmapper

import (
	"testing"

	"github.com/geoknoesis/rdfcore/rdf"
)

// upperStringLiteralMapper is a second LiteralTermMapper for the same Go
// type as stringLiteralMapper, uppercasing the lexical form on encode,
// used only to prove a field-level override is consulted instead of
// whatever the registry has bound for the value's type.
type upperStringLiteralMapper struct{}

func (upperStringLiteralMapper) Datatype() rdf.IRI { return rdf.XSDString }
func (upperStringLiteralMapper) ToLiteral(value interface{}) (rdf.Literal, error) {
	s := value.(string)
	upper := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 32
		}
		upper[i] = c
	}
	return rdf.NewLiteral(string(upper)), nil
}
func (upperStringLiteralMapper) FromLiteral(lit rdf.Literal) (interface{}, error) {
	return lit.Lexical(), nil
}

// TestFieldLevelMapperOverridesRegistry registers one mapper on the
// registry and passes a different one as an override for a single
// field, asserting the override's output appears in the resulting
// triples instead of the registry-bound mapper's output.
func TestFieldLevelMapperOverridesRegistry(t *testing.T) {
	reg := NewRegistry()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, Both)

	ctx := NewSerializationContext(reg)
	subject := rdf.NewIRIUnchecked("http://example.org/alice")
	b := ctx.Builder(subject)
	nickname := rdf.NewIRIUnchecked("http://example.org/nickname")

	if err := b.AddValueWith(nickname, "ace", upperStringLiteralMapper{}); err != nil {
		t.Fatalf("AddValueWith: %v", err)
	}

	matches := ctx.Graph().BySubject(subject)
	if len(matches) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(matches))
	}
	lit, ok := matches[0].O.(rdf.Literal)
	if !ok {
		t.Fatalf("expected a literal object, got %T", matches[0].O)
	}
	if lit.Lexical() != "ACE" {
		t.Errorf("expected the override mapper's uppercased output %q, got %q", "ACE", lit.Lexical())
	}

	// Plain AddValue, with no override, must still go through the
	// registry-bound mapper unchanged.
	plain := rdf.NewIRIUnchecked("http://example.org/plainName")
	if err := b.AddValue(plain, "ace"); err != nil {
		t.Fatalf("AddValue: %v", err)
	}
	var plainLit rdf.Literal
	for _, tr := range ctx.Graph().BySubject(subject) {
		if tr.P.Equal(plain) {
			plainLit = tr.O.(rdf.Literal)
		}
	}
	if plainLit.Lexical() != "ace" {
		t.Errorf("expected the registry mapper's unmodified output %q, got %q", "ace", plainLit.Lexical())
	}
}

// TestRequireWithOverridesRegistryOnDecode is the decode-path sibling:
// a different override mapper is used to decode a single field instead
// of whatever the registry has bound for the target Go type.
func TestRequireWithOverridesRegistryOnDecode(t *testing.T) {
	reg := NewRegistry()
	RegisterLiteralMapper[string](reg, stringLiteralMapper{}, Both)

	subject := rdf.NewIRIUnchecked("http://example.org/alice")
	nickname := rdf.NewIRIUnchecked("http://example.org/nickname")
	tr, err := rdf.NewTriple(subject, nickname, rdf.NewLiteral("ACE"))
	if err != nil {
		t.Fatalf("NewTriple: %v", err)
	}
	g := rdf.NewGraph(tr)
	ctx := NewDeserializationContext(reg, g, CompletenessLenient)
	r := ctx.Reader(subject)

	got, err := RequireWith[string](r, nickname, upperStringLiteralMapper{})
	if err != nil {
		t.Fatalf("RequireWith: %v", err)
	}
	if got != "ACE" {
		t.Errorf("expected the override mapper's decoded value %q, got %q", "ACE", got)
	}
}
