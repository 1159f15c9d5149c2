package rdfmapper

import (
	"reflect"

	"github.com/geoknoesis/rdfcore/rdf"
)

// Mapper is the façade a caller interacts with: a Registry plus the
// completeness-accounting mode to apply on every deserialization.
type Mapper struct {
	registry     *Registry
	completeness CompletenessMode
}

// NewMapper returns a Mapper over registry using CompletenessStrict.
func NewMapper(registry *Registry) *Mapper {
	return &Mapper{registry: registry, completeness: CompletenessStrict}
}

// WithCompleteness returns a copy of m using the given completeness mode.
func (m *Mapper) WithCompleteness(mode CompletenessMode) *Mapper {
	return &Mapper{registry: m.registry, completeness: mode}
}

// Registry returns the mapper's underlying registry.
func (m *Mapper) Registry() *Registry { return m.registry }

// ToGraph serializes value, rooted at subject, into a fresh Graph by
// invoking the resource mapper registered for value's Go type.
func ToGraph(m *Mapper, subject rdf.Term, value interface{}) (rdf.Graph, error) {
	rt := reflect.TypeOf(value)
	mapper, _, ok := m.registry.resourceMapperFor(rt)
	if !ok {
		return rdf.Graph{}, &SerializerNotFoundError{Type: rt}
	}
	ctx := NewSerializationContext(m.registry)
	ctx.BindSubject(value, subject)
	triples, err := mapper.ToTriples(subject, value, ctx)
	if err != nil {
		return rdf.Graph{}, err
	}
	for _, t := range triples {
		ctx.Emit(t)
	}
	return ctx.Graph(), nil
}

// FromGraph deserializes a T rooted at subject out of g. If subject is
// nil, the root is selected via SelectRootFor.
func FromGraph[T any](m *Mapper, g rdf.Graph, subject rdf.Term) (T, error) {
	var zero T
	root, err := selectSubject[T](m.registry, g, subject)
	if err != nil {
		return zero, err
	}
	ctx := NewDeserializationContext(m.registry, g, m.completeness)
	v, err := fromTerm[T](ctx, root)
	if err != nil {
		return zero, err
	}
	if err := ctx.CheckComplete(); err != nil {
		return zero, err
	}
	return v, nil
}

// ToGraphs serializes every value in values, paired by index with the
// matching subject in subjects, into one merged graph.
func ToGraphs(m *Mapper, subjects []rdf.Term, values []interface{}) (rdf.Graph, error) {
	if len(subjects) != len(values) {
		return rdf.Graph{}, &rdf.ConstraintViolationError{Reason: "ToGraphs requires matching subjects and values slices"}
	}
	ctx := NewSerializationContext(m.registry)
	for i, value := range values {
		rt := reflect.TypeOf(value)
		mapper, _, ok := m.registry.resourceMapperFor(rt)
		if !ok {
			return rdf.Graph{}, &SerializerNotFoundError{Type: rt}
		}
		ctx.BindSubject(value, subjects[i])
		triples, err := mapper.ToTriples(subjects[i], value, ctx)
		if err != nil {
			return rdf.Graph{}, err
		}
		for _, t := range triples {
			ctx.Emit(t)
		}
	}
	return ctx.Graph(), nil
}

// FromGraphs deserializes every subject in g whose rdf:type matches the
// resource mapper registered for T, bypassing single-root selection
// entirely — the plural sibling of FromGraph.
func FromGraphs[T any](m *Mapper, g rdf.Graph) ([]T, error) {
	t := typeOf[T]()
	mapper, _, ok := m.registry.resourceMapperFor(t)
	if !ok {
		return nil, &DeserializerNotFoundError{Type: t}
	}
	subjects := subjectsWithType(g, mapper.TypeIRI())
	out := make([]T, 0, len(subjects))
	for _, subject := range subjects {
		ctx := NewDeserializationContext(m.registry, g, m.completeness)
		v, err := fromTerm[T](ctx, subject)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FromGraphByType deserializes the resource rooted at subject using
// whichever ResourceMapper is registered for the rdf:type IRI the
// subject itself carries, rather than one known in advance for a Go
// type T. This realizes the registry's by-IRI lookup surface for
// callers that decode a graph polymorphically (e.g. a heterogeneous
// rdf:List whose members are various resource types).
func FromGraphByType(m *Mapper, g rdf.Graph, subject rdf.Term) (interface{}, error) {
	typeIRI, ok := subjectTypeIRI(g, subject)
	if !ok {
		return nil, &rdf.ConstraintViolationError{Reason: "subject " + subject.String() + " has no rdf:type triple to dispatch on"}
	}
	mapper, _, ok := m.registry.resourceMapperForIRI(typeIRI)
	if !ok {
		return nil, &DeserializerNotFoundError{IRI: typeIRI}
	}
	ctx := NewDeserializationContext(m.registry, g, m.completeness)
	v, err := mapper.FromTriples(subject, ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.CheckComplete(); err != nil {
		return nil, err
	}
	return v, nil
}

func subjectTypeIRI(g rdf.Graph, subject rdf.Term) (rdf.IRI, bool) {
	for _, t := range g.BySubject(subject) {
		if t.P.Equal(rdf.RDFType) {
			if iri, ok := t.O.(rdf.IRI); ok {
				return iri, true
			}
		}
	}
	return rdf.IRI{}, false
}

func selectSubject[T any](registry *Registry, g rdf.Graph, explicit rdf.Term) (rdf.Term, error) {
	if explicit != nil {
		return explicit, nil
	}
	return SelectRootFor[T](registry, g, nil)
}
