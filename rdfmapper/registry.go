package rdfmapper

import (
	"reflect"
	"sync"

	"github.com/geoknoesis/rdfcore/rdf"
)

// Direction constrains which way a mapper may be used.
type Direction int

const (
	// Both permits serialization and deserialization.
	Both Direction = iota
	// SerializeOnly permits only Go-value-to-RDF conversion.
	SerializeOnly
	// DeserializeOnly permits only RDF-to-Go-value conversion.
	DeserializeOnly
)

func (d Direction) String() string {
	switch d {
	case SerializeOnly:
		return "serialize_only"
	case DeserializeOnly:
		return "deserialize_only"
	default:
		return "both"
	}
}

func (d Direction) allows(wantSerialize bool) bool {
	switch d {
	case SerializeOnly:
		return wantSerialize
	case DeserializeOnly:
		return !wantSerialize
	default:
		return true
	}
}

// IRITermMapper converts between a Go value and an IRI term.
type IRITermMapper interface {
	ToIRI(value interface{}) (rdf.IRI, error)
	FromIRI(iri rdf.IRI) (interface{}, error)
}

// LiteralTermMapper converts between a Go value and a Literal term.
type LiteralTermMapper interface {
	Datatype() rdf.IRI
	ToLiteral(value interface{}) (rdf.Literal, error)
	FromLiteral(lit rdf.Literal) (interface{}, error)
}

// ResourceMapper converts between a Go value and a set of triples
// rooted at a subject. GlobalResourceMapper, LocalResourceMapper and
// UnifiedResourceMapper differ only in which subject kinds they accept;
// the registry enforces that constraint, not the interface itself.
type ResourceMapper interface {
	TypeIRI() rdf.IRI
	ToTriples(subject rdf.Term, value interface{}, ctx *SerializationContext) ([]rdf.Triple, error)
	FromTriples(subject rdf.Term, ctx *DeserializationContext) (interface{}, error)
}

// SubjectKind constrains which term kinds a ResourceMapper accepts as
// its root subject.
type SubjectKind int

const (
	// AnySubject accepts both IRI and blank-node subjects (unified resource mapper).
	AnySubject SubjectKind = iota
	// GlobalSubject requires an IRI subject.
	GlobalSubject
	// LocalSubject requires a blank-node subject.
	LocalSubject
)

type resourceRegistration struct {
	mapper    ResourceMapper
	kind      SubjectKind
	direction Direction
}

type literalRegistration struct {
	mapper    LiteralTermMapper
	direction Direction
}

type iriRegistration struct {
	mapper    IRITermMapper
	direction Direction
}

// MultiObjectsMapper serializes/deserializes a Go slice value as
// multiple triples sharing one subject+predicate (the unordered
// collection strategy).
type MultiObjectsMapper interface {
	ToObjects(value interface{}, ctx *SerializationContext) ([]rdf.Term, error)
	FromObjects(objects []rdf.Term, ctx *DeserializationContext) (interface{}, error)
}

// UnmappedTriplesMapper converts leftover triples to/from an in-memory
// graph fragment value (the completeness-preservation escape hatch).
type UnmappedTriplesMapper interface {
	ToGraph(value interface{}) (rdf.Graph, error)
	FromGraph(g rdf.Graph) (interface{}, error)
}

// Registry is a process-wide (or scoped) table of mappers keyed by Go
// type and by RDF datatype/class IRI.
type Registry struct {
	mu     sync.RWMutex
	frozen bool

	iriByType     map[reflect.Type]iriRegistration
	literalByType map[reflect.Type]literalRegistration
	literalByIRI  map[string]literalRegistration
	resourceByType map[reflect.Type]resourceRegistration
	resourceByIRI  map[string]resourceRegistration
	multiByType    map[reflect.Type]MultiObjectsMapper
	unmappedByType map[reflect.Type]UnmappedTriplesMapper
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		iriByType:      make(map[reflect.Type]iriRegistration),
		literalByType:  make(map[reflect.Type]literalRegistration),
		literalByIRI:   make(map[string]literalRegistration),
		resourceByType: make(map[reflect.Type]resourceRegistration),
		resourceByIRI:  make(map[string]resourceRegistration),
		multiByType:    make(map[reflect.Type]MultiObjectsMapper),
		unmappedByType: make(map[reflect.Type]UnmappedTriplesMapper),
	}
}

// Clone returns a fresh copy of the registry's registrations, used for
// scoped temporary registration during a single codec call.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewRegistry()
	for k, v := range r.iriByType {
		clone.iriByType[k] = v
	}
	for k, v := range r.literalByType {
		clone.literalByType[k] = v
	}
	for k, v := range r.literalByIRI {
		clone.literalByIRI[k] = v
	}
	for k, v := range r.resourceByType {
		clone.resourceByType[k] = v
	}
	for k, v := range r.resourceByIRI {
		clone.resourceByIRI[k] = v
	}
	for k, v := range r.multiByType {
		clone.multiByType[k] = v
	}
	for k, v := range r.unmappedByType {
		clone.unmappedByType[k] = v
	}
	return clone
}

// WithScope runs register against a clone of r and returns the clone,
// leaving r itself untouched. Intended for one-off codec calls that
// need a field-level override without mutating global registrations.
func (r *Registry) WithScope(register func(*Registry)) *Registry {
	clone := r.Clone()
	register(clone)
	return clone
}

// Freeze prevents any further Register* call on r from succeeding; each
// subsequently panics. Intended for long-lived process-global registries
// once their startup registration is complete (see SPEC_FULL.md §5).
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry) checkNotFrozen() {
	if r.frozen {
		panic("rdfmapper: Register called on a frozen Registry")
	}
}

// RegisterIRIMapper binds an IRITermMapper to a Go type.
func RegisterIRIMapper[T any](r *Registry, m IRITermMapper, dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkNotFrozen()
	r.iriByType[typeOf[T]()] = iriRegistration{mapper: m, direction: dir}
}

// RegisterLiteralMapper binds a LiteralTermMapper to a Go type and to
// its declared datatype IRI.
func RegisterLiteralMapper[T any](r *Registry, m LiteralTermMapper, dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkNotFrozen()
	reg := literalRegistration{mapper: m, direction: dir}
	r.literalByType[typeOf[T]()] = reg
	r.literalByIRI[m.Datatype().Value()] = reg
}

// RegisterResourceMapper binds a ResourceMapper to a Go type and to its
// declared rdf:type IRI, constrained to the given subject kind.
func RegisterResourceMapper[T any](r *Registry, m ResourceMapper, kind SubjectKind, dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkNotFrozen()
	reg := resourceRegistration{mapper: m, kind: kind, direction: dir}
	r.resourceByType[typeOf[T]()] = reg
	r.resourceByIRI[m.TypeIRI().Value()] = reg
}

// RegisterMultiObjectsMapper binds a MultiObjectsMapper to a Go slice type.
func RegisterMultiObjectsMapper[T any](r *Registry, m MultiObjectsMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkNotFrozen()
	r.multiByType[typeOf[T]()] = m
}

// RegisterUnmappedTriplesMapper binds the graph-fragment mapper used by
// the completeness-preservation sink field for a Go type.
func RegisterUnmappedTriplesMapper[T any](r *Registry, m UnmappedTriplesMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkNotFrozen()
	r.unmappedByType[typeOf[T]()] = m
}

// HasIRIMapperFor reports whether an IRI mapper is registered for T.
func HasIRIMapperFor[T any](r *Registry) bool {
	return r.HasIRIMapperForType(typeOf[T]())
}

// HasIRIMapperForType is the runtime-type variant of HasIRIMapperFor.
func (r *Registry) HasIRIMapperForType(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.iriByType[t]
	return ok
}

// HasLiteralMapperFor reports whether a literal mapper is registered for T.
func HasLiteralMapperFor[T any](r *Registry) bool {
	return r.HasLiteralMapperForType(typeOf[T]())
}

// HasLiteralMapperForType is the runtime-type variant of HasLiteralMapperFor.
func (r *Registry) HasLiteralMapperForType(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.literalByType[t]
	return ok
}

// HasResourceMapperFor reports whether a resource mapper is registered for T.
func HasResourceMapperFor[T any](r *Registry) bool {
	return r.HasResourceMapperForType(typeOf[T]())
}

// HasResourceMapperForType is the runtime-type variant of HasResourceMapperFor.
func (r *Registry) HasResourceMapperForType(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.resourceByType[t]
	return ok
}

func (r *Registry) iriMapperFor(t reflect.Type) (IRITermMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.iriByType[t]
	if !ok {
		return nil, false
	}
	return reg.mapper, true
}

func (r *Registry) literalMapperFor(t reflect.Type) (LiteralTermMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.literalByType[t]
	if !ok {
		return nil, false
	}
	return reg.mapper, true
}

func (r *Registry) literalMapperForIRI(dt rdf.IRI) (LiteralTermMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.literalByIRI[dt.Value()]
	if !ok {
		return nil, false
	}
	return reg.mapper, true
}

func (r *Registry) resourceMapperFor(t reflect.Type) (ResourceMapper, SubjectKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.resourceByType[t]
	if !ok {
		return nil, AnySubject, false
	}
	return reg.mapper, reg.kind, true
}

func (r *Registry) resourceMapperForIRI(typeIRI rdf.IRI) (ResourceMapper, SubjectKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.resourceByIRI[typeIRI.Value()]
	if !ok {
		return nil, AnySubject, false
	}
	return reg.mapper, reg.kind, true
}

func (r *Registry) iriMapperDirection(t reflect.Type) Direction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.iriByType[t].direction
}

func (r *Registry) literalMapperDirection(t reflect.Type) Direction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.literalByType[t].direction
}

func (r *Registry) resourceMapperDirection(t reflect.Type) Direction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resourceByType[t].direction
}

func (r *Registry) multiObjectsMapperFor(t reflect.Type) (MultiObjectsMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.multiByType[t]
	return m, ok
}

func (r *Registry) unmappedTriplesMapperFor(t reflect.Type) (UnmappedTriplesMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.unmappedByType[t]
	return m, ok
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
