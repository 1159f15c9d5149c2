package rdfmapper

import (
	"reflect"
	"strings"

	"github.com/geoknoesis/rdfcore/rdf"
)

// TemplateMismatchError reports an IRI that does not match a
// TemplateIRIMapper's pattern on the decode path.
type TemplateMismatchError struct {
	Pattern string
	IRI     rdf.IRI
}

func (e *TemplateMismatchError) Error() string {
	return "rdfmapper: IRI " + e.IRI.Value() + " does not match template " + e.Pattern
}

// TemplateIRIMapper is an IRITermMapper backed by an IRI pattern such as
// "https://example.org/people/{id}" rather than hand-written ToIRI/
// FromIRI logic. A placeholder is resolved by looking up an exported
// field of that name (case-insensitive) on the Go value, mirroring the
// reflective field lookup resolveIRIField already uses for subject
// resolution.
type TemplateIRIMapper struct {
	Pattern string
}

// NewTemplateIRIMapper returns a TemplateIRIMapper for pattern, which
// must contain at least one "{name}" placeholder.
func NewTemplateIRIMapper(pattern string) *TemplateIRIMapper {
	return &TemplateIRIMapper{Pattern: pattern}
}

// ToIRI resolves every placeholder in the pattern against value's
// fields and returns the resulting IRI.
func (t *TemplateIRIMapper) ToIRI(value interface{}) (rdf.IRI, error) {
	out := t.Pattern
	for _, name := range t.placeholders() {
		v, ok := fieldByName(value, name)
		if !ok {
			return rdf.IRI{}, &rdf.ConstraintViolationError{Reason: "template placeholder {" + name + "} has no matching field"}
		}
		out = strings.ReplaceAll(out, "{"+name+"}", v)
	}
	return rdf.NewIRIUnchecked(out), nil
}

// FromIRI matches iri against the pattern and returns the placeholder
// bindings as a map[string]string, the same map ResolvePlaceholders
// returns. It does not construct a Go value of the mapped type, since
// the template alone does not know that type. A non-matching IRI yields
// a TemplateMismatchError.
func (t *TemplateIRIMapper) FromIRI(iri rdf.IRI) (interface{}, error) {
	placeholders, ok := t.ResolvePlaceholders(iri)
	if !ok {
		return nil, &TemplateMismatchError{Pattern: t.Pattern, IRI: iri}
	}
	return placeholders, nil
}

// ResolvePlaceholders matches iri against the pattern and, on success,
// returns the value bound to each placeholder name.
func (t *TemplateIRIMapper) ResolvePlaceholders(iri rdf.IRI) (map[string]string, bool) {
	pattern := t.Pattern
	value := iri.Value()
	result := make(map[string]string)
	for {
		start := strings.Index(pattern, "{")
		if start == -1 {
			if pattern != value {
				return nil, false
			}
			return result, true
		}
		if !strings.HasPrefix(value, pattern[:start]) {
			return nil, false
		}
		value = value[start:]
		pattern = pattern[start:]
		end := strings.Index(pattern, "}")
		if end == -1 {
			return nil, false
		}
		name := pattern[1:end]
		pattern = pattern[end+1:]
		next := strings.Index(pattern, "{")
		var literalAfter string
		if next == -1 {
			literalAfter = pattern
		} else {
			literalAfter = pattern[:next]
		}
		var valueEnd int
		if literalAfter == "" {
			valueEnd = len(value)
		} else {
			idx := strings.Index(value, literalAfter)
			if idx == -1 {
				return nil, false
			}
			valueEnd = idx
		}
		result[name] = value[:valueEnd]
		value = value[valueEnd:]
	}
}

func (t *TemplateIRIMapper) placeholders() []string {
	var out []string
	rest := t.Pattern
	for {
		start := strings.Index(rest, "{")
		if start == -1 {
			return out
		}
		end := strings.Index(rest[start:], "}")
		if end == -1 {
			return out
		}
		out = append(out, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}
}

func fieldByName(value interface{}, name string) (string, bool) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", false
	}
	field := rv.FieldByNameFunc(func(fieldName string) bool {
		return strings.EqualFold(fieldName, name)
	})
	if !field.IsValid() {
		return "", false
	}
	switch field.Kind() {
	case reflect.String:
		return field.String(), true
	default:
		return "", false
	}
}
