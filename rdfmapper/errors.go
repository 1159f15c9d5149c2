package rdfmapper

import (
	"fmt"
	"reflect"

	"github.com/geoknoesis/rdfcore/rdf"
)

// SerializerNotFoundError reports that no mapper is registered to
// serialize the given Go type in the required direction.
type SerializerNotFoundError struct {
	Type reflect.Type
}

func (e *SerializerNotFoundError) Error() string {
	return fmt.Sprintf("rdfmapper: no serializer registered for type %s", e.Type)
}

// DeserializerNotFoundError reports that no mapper is registered to
// deserialize the given Go type or RDF class/datatype IRI.
type DeserializerNotFoundError struct {
	Type reflect.Type
	IRI  rdf.IRI
}

func (e *DeserializerNotFoundError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("rdfmapper: no deserializer registered for type %s", e.Type)
	}
	return fmt.Sprintf("rdfmapper: no deserializer registered for IRI %s", e.IRI.Value())
}

// DeserializerDatatypeMismatchError reports that a literal's datatype
// did not match what the target mapper expected.
type DeserializerDatatypeMismatchError struct {
	Expected   rdf.IRI
	Actual     rdf.IRI
	Suggestion string
}

func (e *DeserializerDatatypeMismatchError) Error() string {
	msg := fmt.Sprintf("rdfmapper: literal datatype mismatch: expected %s, got %s", e.Expected.Value(), e.Actual.Value())
	if e.Suggestion != "" {
		msg += "; " + e.Suggestion
	}
	return msg
}

// IncompleteDeserializationError reports leftover triples after a
// strict-mode deserialization pass.
type IncompleteDeserializationError struct {
	RemainingCount   int
	UnmappedSubjects []rdf.Term
	UnmappedTypes    []rdf.IRI
}

func (e *IncompleteDeserializationError) Error() string {
	return fmt.Sprintf("rdfmapper: %d triple(s) left unconsumed across %d subject(s)", e.RemainingCount, len(e.UnmappedSubjects))
}

// AmbiguousRootError reports that root selection could not settle on a
// single candidate subject.
type AmbiguousRootError struct {
	Candidates []rdf.Term
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("rdfmapper: %d candidate root subjects remain after tie-break", len(e.Candidates))
}

// NoRootFoundError reports that root selection found zero candidates.
type NoRootFoundError struct {
	Type reflect.Type
}

func (e *NoRootFoundError) Error() string {
	return fmt.Sprintf("rdfmapper: no root subject found for type %s", e.Type)
}

// DirectionError reports that a mapper was invoked in a direction it
// declared it does not support.
type DirectionError struct {
	Type      reflect.Type
	Direction Direction
}

func (e *DirectionError) Error() string {
	return fmt.Sprintf("rdfmapper: mapper for %s does not support direction %s", e.Type, e.Direction)
}
