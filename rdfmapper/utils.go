package rdfmapper

import (
	"reflect"

	"github.com/geoknoesis/rdfcore/rdf"
)

// ConstraintError reports a Go-value shape the mapper package cannot
// work with (e.g. a non-map passed to AddMap).
type ConstraintError struct {
	Reason string
}

func (e *ConstraintError) Error() string { return "rdfmapper: " + e.Reason }

func typeOfValue(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

// isNilValue reports whether v is a nil pointer, interface, slice or map.
func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// sliceValues returns the elements of a slice or array value as a
// []interface{}, regardless of its concrete element type.
func sliceValues(v interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, &ConstraintError{Reason: "expected a slice or array value"}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// resolveIRIField looks for an exported "IRI" field or an "IRI() rdf.IRI"
// method on value, used to pick a stable global subject for a resource
// mapper when the caller didn't supply one explicitly.
func resolveIRIField(value interface{}) (rdf.IRI, bool) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return rdf.IRI{}, false
		}
		rv = rv.Elem()
	}
	if m := reflect.ValueOf(value).MethodByName("IRI"); m.IsValid() {
		results := m.Call(nil)
		if len(results) == 1 {
			if iri, ok := results[0].Interface().(rdf.IRI); ok {
				return iri, true
			}
		}
	}
	if rv.Kind() != reflect.Struct {
		return rdf.IRI{}, false
	}
	field := rv.FieldByName("IRI")
	if !field.IsValid() {
		return rdf.IRI{}, false
	}
	if iri, ok := field.Interface().(rdf.IRI); ok {
		return iri, true
	}
	return rdf.IRI{}, false
}
