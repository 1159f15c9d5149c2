package rdfmapper

import (
	"reflect"
	"strconv"

	"github.com/geoknoesis/rdfcore/rdf"
)

const rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// SerializationContext accumulates triples produced while mapping a Go
// value graph to RDF. It tracks blank-node identity per Go pointer so
// that shared references serialize to a single shared subject rather
// than being duplicated.
type SerializationContext struct {
	registry *Registry
	triples  []rdf.Triple
	subjects map[interface{}]rdf.Term
}

// NewSerializationContext returns an empty context bound to registry.
func NewSerializationContext(registry *Registry) *SerializationContext {
	return &SerializationContext{
		registry: registry,
		subjects: make(map[interface{}]rdf.Term),
	}
}

// Registry returns the mapper registry this context serializes with.
func (c *SerializationContext) Registry() *Registry { return c.registry }

// Emit appends a triple to the context's accumulated output.
func (c *SerializationContext) Emit(t rdf.Triple) {
	c.triples = append(c.triples, t)
}

// Triples returns every triple emitted so far.
func (c *SerializationContext) Triples() []rdf.Triple {
	return append([]rdf.Triple(nil), c.triples...)
}

// Graph collects the context's emitted triples into a Graph.
func (c *SerializationContext) Graph() rdf.Graph {
	return rdf.NewGraph(c.triples...)
}

// SubjectFor returns the subject term already assigned to key (a
// pointer identity), and whether one existed.
func (c *SerializationContext) SubjectFor(key interface{}) (rdf.Term, bool) {
	t, ok := c.subjects[key]
	return t, ok
}

// BindSubject records the subject term to use for key, so a second
// reference to the same Go value reuses it instead of minting a new
// blank node or resource.
func (c *SerializationContext) BindSubject(key interface{}, subject rdf.Term) {
	c.subjects[key] = subject
}

// ResourceBuilder accumulates the triples describing one subject.
type ResourceBuilder struct {
	ctx     *SerializationContext
	subject rdf.Term
}

// Builder returns a ResourceBuilder rooted at subject, bound to ctx.
func (c *SerializationContext) Builder(subject rdf.Term) *ResourceBuilder {
	return &ResourceBuilder{ctx: c, subject: subject}
}

// Subject returns the builder's root subject term.
func (b *ResourceBuilder) Subject() rdf.Term { return b.subject }

// AddTriple emits subject-predicate-object directly.
func (b *ResourceBuilder) AddTriple(p rdf.IRI, o rdf.Term) error {
	t, err := rdf.NewTriple(b.subject, p, o)
	if err != nil {
		return err
	}
	b.ctx.Emit(t)
	return nil
}

// AddValue serializes value through whatever mapper is registered for
// its type (IRI, literal or resource mapper, tried in that order) and
// emits one triple under predicate p.
func (b *ResourceBuilder) AddValue(p rdf.IRI, value interface{}) error {
	obj, err := b.toTerm(value)
	if err != nil {
		return err
	}
	return b.AddTriple(p, obj)
}

// AddValueWith is AddValue but serializes value through override instead
// of consulting the registry, implementing field-level mapper
// precedence over whatever the registry has bound for value's type.
// override must be an IRITermMapper, LiteralTermMapper or ResourceMapper.
func (b *ResourceBuilder) AddValueWith(p rdf.IRI, value interface{}, override interface{}) error {
	obj, err := b.toTermWithOverride(value, override)
	if err != nil {
		return err
	}
	return b.AddTriple(p, obj)
}

func (b *ResourceBuilder) toTermWithOverride(value interface{}, override interface{}) (rdf.Term, error) {
	switch m := override.(type) {
	case IRITermMapper:
		return m.ToIRI(value)
	case LiteralTermMapper:
		return m.ToLiteral(value)
	case ResourceMapper:
		subject := b.subjectForResource(value, AnySubject)
		triples, err := m.ToTriples(subject, value, b.ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range triples {
			b.ctx.Emit(t)
		}
		return subject, nil
	default:
		return b.toTerm(value)
	}
}

// AddValueIfNotNil is AddValue but silently skips a nil pointer/interface,
// matching the mapper's optional-field semantics.
func (b *ResourceBuilder) AddValueIfNotNil(p rdf.IRI, value interface{}) error {
	if isNilValue(value) {
		return nil
	}
	return b.AddValue(p, value)
}

// AddValues emits values under predicate p using the multi-objects
// strategy: a MultiObjectsMapper registered for values' own type is
// consulted first, falling back to one AddValue-emitted triple per
// element when none is registered.
func (b *ResourceBuilder) AddValues(p rdf.IRI, values interface{}) error {
	if m, ok := b.ctx.registry.multiObjectsMapperFor(reflect.TypeOf(values)); ok {
		objects, err := m.ToObjects(values, b.ctx)
		if err != nil {
			return err
		}
		for _, o := range objects {
			if err := b.AddTriple(p, o); err != nil {
				return err
			}
		}
		return nil
	}
	items, err := sliceValues(values)
	if err != nil {
		return err
	}
	for _, v := range items {
		if err := b.AddValue(p, v); err != nil {
			return err
		}
	}
	return nil
}

// AddRDFList emits values as a cons-cell rdf:List rooted at a fresh
// blank node, linked to the subject via predicate p. An empty list
// links directly to rdf:nil.
func (b *ResourceBuilder) AddRDFList(p rdf.IRI, values interface{}) error {
	items, err := sliceValues(values)
	if err != nil {
		return err
	}
	head, err := b.buildRDFList(items)
	if err != nil {
		return err
	}
	return b.AddTriple(p, head)
}

func (b *ResourceBuilder) buildRDFList(items []interface{}) (rdf.Term, error) {
	if len(items) == 0 {
		return rdf.RDFNil, nil
	}
	node := rdf.NewBlankNode()
	first, err := b.toTerm(items[0])
	if err != nil {
		return nil, err
	}
	rest, err := b.buildRDFList(items[1:])
	if err != nil {
		return nil, err
	}
	ft, err := rdf.NewTriple(node, rdf.RDFFirst, first)
	if err != nil {
		return nil, err
	}
	rt, err := rdf.NewTriple(node, rdf.RDFRest, rest)
	if err != nil {
		return nil, err
	}
	b.ctx.Emit(ft)
	b.ctx.Emit(rt)
	return node, nil
}

// containerMember is rdf:_1, rdf:_2, ... used by rdf:Seq/Bag/Alt.
func containerMember(index int) rdf.IRI {
	return rdf.NewIRIUnchecked(rdfNamespace + "_" + strconv.Itoa(index+1))
}

// containerMemberIndex parses rdf:_N back into its 1-based N, reporting
// false for any other predicate (including rdf:type).
func containerMemberIndex(p rdf.IRI) (int, bool) {
	const prefix = rdfNamespace + "_"
	v := p.Value()
	if len(v) <= len(prefix) || v[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(v[len(prefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// AddRDFContainer emits values as a numbered rdf:Seq/Bag/Alt container
// of the given kind, rooted at a fresh blank node typed accordingly.
func (b *ResourceBuilder) AddRDFContainer(p rdf.IRI, kind ContainerKind, values interface{}) error {
	items, err := sliceValues(values)
	if err != nil {
		return err
	}
	container := rdf.NewBlankNode()
	typeTriple, err := rdf.NewTriple(container, rdf.RDFType, kind.typeIRI())
	if err != nil {
		return err
	}
	b.ctx.Emit(typeTriple)
	for i, v := range items {
		term, err := b.toTerm(v)
		if err != nil {
			return err
		}
		mt, err := rdf.NewTriple(container, containerMember(i), term)
		if err != nil {
			return err
		}
		b.ctx.Emit(mt)
	}
	return b.AddTriple(p, container)
}

// AddMap emits one (predicate, blank-node entry) triple per map entry,
// where each entry node carries an rdfmapper:key / rdfmapper:value pair.
// Grounded on the spec's map-as-entry-nodes requirement; the vocabulary
// terms are this package's own, not externally standardized.
func (b *ResourceBuilder) AddMap(p rdf.IRI, m interface{}) error {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Map {
		return &rdf.ConstraintViolationError{Reason: "AddMap requires a map value"}
	}
	for _, key := range v.MapKeys() {
		entry := rdf.NewBlankNode()
		keyTerm, err := b.toTerm(key.Interface())
		if err != nil {
			return err
		}
		valTerm, err := b.toTerm(v.MapIndex(key).Interface())
		if err != nil {
			return err
		}
		kt, err := rdf.NewTriple(entry, MapKeyPredicate, keyTerm)
		if err != nil {
			return err
		}
		vt, err := rdf.NewTriple(entry, MapValuePredicate, valTerm)
		if err != nil {
			return err
		}
		b.ctx.Emit(kt)
		b.ctx.Emit(vt)
		if err := b.AddTriple(p, entry); err != nil {
			return err
		}
	}
	return nil
}

// AddUnmapped merges every triple of g into the context's output
// verbatim, preserving triples the mapper itself does not understand.
func (b *ResourceBuilder) AddUnmapped(g rdf.Graph) {
	for _, t := range g.Triples() {
		b.ctx.Emit(t)
	}
}

// AddUnmappedValue serializes a completeness-preservation sink field
// through the UnmappedTriplesMapper registered for its type and merges
// the resulting triples into the context's output verbatim. Use this
// instead of AddUnmapped when the sink field's Go type is not itself
// rdf.Graph.
func (b *ResourceBuilder) AddUnmappedValue(value interface{}) error {
	rt := reflect.TypeOf(value)
	m, ok := b.ctx.registry.unmappedTriplesMapperFor(rt)
	if !ok {
		return &SerializerNotFoundError{Type: rt}
	}
	g, err := m.ToGraph(value)
	if err != nil {
		return err
	}
	b.AddUnmapped(g)
	return nil
}

// Build finalizes the builder. It exists for symmetry with
// ResourceReader and to signal the end of a resource's field list; all
// triples are already live in the context by the time this is called.
func (b *ResourceBuilder) Build() rdf.Term {
	return b.subject
}

func (b *ResourceBuilder) toTerm(value interface{}) (rdf.Term, error) {
	if t, ok := value.(rdf.Term); ok {
		return t, nil
	}
	rt := reflect.TypeOf(value)
	if m, ok := b.ctx.registry.iriMapperFor(rt); ok {
		if !b.ctx.registry.iriMapperDirection(rt).allows(true) {
			return nil, &DirectionError{Type: rt, Direction: b.ctx.registry.iriMapperDirection(rt)}
		}
		return m.ToIRI(value)
	}
	if m, ok := b.ctx.registry.literalMapperFor(rt); ok {
		if !b.ctx.registry.literalMapperDirection(rt).allows(true) {
			return nil, &DirectionError{Type: rt, Direction: b.ctx.registry.literalMapperDirection(rt)}
		}
		lit, err := m.ToLiteral(value)
		if err != nil {
			return nil, err
		}
		return lit, nil
	}
	if m, kind, ok := b.ctx.registry.resourceMapperFor(rt); ok {
		if !b.ctx.registry.resourceMapperDirection(rt).allows(true) {
			return nil, &DirectionError{Type: rt, Direction: b.ctx.registry.resourceMapperDirection(rt)}
		}
		subject := b.subjectForResource(value, kind)
		triples, err := m.ToTriples(subject, value, b.ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range triples {
			b.ctx.Emit(t)
		}
		return subject, nil
	}
	return nil, &SerializerNotFoundError{Type: rt}
}

func (b *ResourceBuilder) subjectForResource(value interface{}, kind SubjectKind) rdf.Term {
	if existing, ok := b.ctx.SubjectFor(value); ok {
		return existing
	}
	var subject rdf.Term
	switch kind {
	case GlobalSubject:
		if iriValue, ok := resolveIRIField(value); ok {
			subject = iriValue
		} else {
			subject = rdf.NewBlankNode()
		}
	default:
		subject = rdf.NewBlankNode()
	}
	b.ctx.BindSubject(value, subject)
	return subject
}

// DeserializationContext exposes the decoded graph to mappers as they
// reconstruct Go values, tracking which triples each resource mapper
// consumes so the registry can report leftovers under strict
// completeness accounting.
type DeserializationContext struct {
	registry             *Registry
	graph                rdf.Graph
	consumed             map[rdf.Triple]bool
	mode                 CompletenessMode
	bypassDatatypeCheck  bool
}

// NewDeserializationContext builds a context over g using registry,
// with completeness accounting mode.
func NewDeserializationContext(registry *Registry, g rdf.Graph, mode CompletenessMode) *DeserializationContext {
	return &DeserializationContext{
		registry: registry,
		graph:    g,
		consumed: make(map[rdf.Triple]bool),
		mode:     mode,
	}
}

// WithBypassDatatypeCheck returns a context that passes a mismatched
// literal straight to FromLiteral instead of raising
// DeserializerDatatypeMismatchError, for callers who know their data
// mixes datatype variants a strict mapper would otherwise reject.
func (c *DeserializationContext) WithBypassDatatypeCheck() *DeserializationContext {
	return &DeserializationContext{
		registry:            c.registry,
		graph:               c.graph,
		consumed:            c.consumed,
		mode:                c.mode,
		bypassDatatypeCheck: true,
	}
}

// Registry returns the mapper registry this context deserializes with.
func (c *DeserializationContext) Registry() *Registry { return c.registry }

// Graph returns the full source graph.
func (c *DeserializationContext) Graph() rdf.Graph { return c.graph }

// Reader returns a ResourceReader scoped to subject.
func (c *DeserializationContext) Reader(subject rdf.Term) *ResourceReader {
	return &ResourceReader{ctx: c, subject: subject}
}

func (c *DeserializationContext) markConsumed(t rdf.Triple) {
	c.consumed[t] = true
}

// Unconsumed returns every triple in the graph not yet marked consumed
// by a Reader call.
func (c *DeserializationContext) Unconsumed() []rdf.Triple {
	var out []rdf.Triple
	for _, t := range c.graph.Triples() {
		if !c.consumed[t] {
			out = append(out, t)
		}
	}
	return out
}

// CheckComplete enforces the context's completeness mode, returning an
// IncompleteDeserializationError for strict mode when triples remain
// unconsumed. lenient/warn_only/info_only never return an error here;
// callers that want the warn/info text use Unconsumed directly.
func (c *DeserializationContext) CheckComplete() error {
	if c.mode != CompletenessStrict {
		return nil
	}
	remaining := c.Unconsumed()
	if len(remaining) == 0 {
		return nil
	}
	subjectSet := make(map[rdf.Term]bool)
	var subjects []rdf.Term
	var types []rdf.IRI
	for _, t := range remaining {
		if !subjectSet[t.S] {
			subjectSet[t.S] = true
			subjects = append(subjects, t.S)
		}
		if t.P.Equal(rdf.RDFType) {
			if iri, ok := t.O.(rdf.IRI); ok {
				types = append(types, iri)
			}
		}
	}
	return &IncompleteDeserializationError{
		RemainingCount:   len(remaining),
		UnmappedSubjects: subjects,
		UnmappedTypes:    types,
	}
}

// ResourceReader reads the triples rooted at one subject out of a
// DeserializationContext, marking each triple it reads as consumed.
type ResourceReader struct {
	ctx     *DeserializationContext
	subject rdf.Term
}

// Subject returns the subject this reader is scoped to.
func (r *ResourceReader) Subject() rdf.Term { return r.subject }

func (r *ResourceReader) triplesForPredicate(p rdf.IRI) []rdf.Triple {
	var out []rdf.Triple
	for _, t := range r.ctx.graph.BySubject(r.subject) {
		if t.P.Equal(p) {
			out = append(out, t)
		}
	}
	return out
}

// GetTriplesForSubject returns every triple whose subject is this
// reader's subject, without marking them consumed.
func (r *ResourceReader) GetTriplesForSubject() []rdf.Triple {
	return r.ctx.graph.BySubject(r.subject)
}

// Require reads exactly one object under predicate p and decodes it
// into T, returning an rdf.ConstraintViolationError if zero or more
// than one triple is present, and a DeserializerNotFoundError if T has
// no registered mapper.
func Require[T any](r *ResourceReader, p rdf.IRI) (T, error) {
	var zero T
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return zero, &rdf.ConstraintViolationError{Reason: "required predicate " + p.Value() + " has no value for subject " + r.subject.String()}
	}
	if len(matches) > 1 {
		return zero, &rdf.ConstraintViolationError{Reason: "required predicate " + p.Value() + " has more than one value for subject " + r.subject.String()}
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	v, err := fromTerm[T](r.ctx, t.O)
	if err != nil {
		return zero, err
	}
	return v, nil
}

// RequireWith is Require but decodes the object through override
// instead of consulting the registry, implementing field-level mapper
// precedence (see SPEC_FULL.md §9, resolved open question).
func RequireWith[T any](r *ResourceReader, p rdf.IRI, override interface{}) (T, error) {
	var zero T
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return zero, &rdf.ConstraintViolationError{Reason: "required predicate " + p.Value() + " has no value for subject " + r.subject.String()}
	}
	if len(matches) > 1 {
		return zero, &rdf.ConstraintViolationError{Reason: "required predicate " + p.Value() + " has more than one value for subject " + r.subject.String()}
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	return fromTermWithOverride[T](r.ctx, t.O, override)
}

func fromTermWithOverride[T any](ctx *DeserializationContext, term rdf.Term, override interface{}) (T, error) {
	var zero T
	switch m := override.(type) {
	case IRITermMapper:
		iri, ok := term.(rdf.IRI)
		if !ok {
			return zero, &DeserializerNotFoundError{}
		}
		v, err := m.FromIRI(iri)
		if err != nil {
			return zero, err
		}
		cast, ok := v.(T)
		if !ok {
			return zero, &DeserializerNotFoundError{}
		}
		return cast, nil
	case LiteralTermMapper:
		lit, ok := term.(rdf.Literal)
		if !ok {
			return zero, &DeserializerNotFoundError{}
		}
		v, err := m.FromLiteral(lit)
		if err != nil {
			return zero, err
		}
		cast, ok := v.(T)
		if !ok {
			return zero, &DeserializerNotFoundError{}
		}
		return cast, nil
	case ResourceMapper:
		v, err := m.FromTriples(term, ctx)
		if err != nil {
			return zero, err
		}
		cast, ok := v.(T)
		if !ok {
			return zero, &DeserializerNotFoundError{}
		}
		return cast, nil
	default:
		return fromTerm[T](ctx, term)
	}
}

// Optional is Require but returns the zero value and ok=false instead
// of an error when the predicate is absent.
func Optional[T any](r *ResourceReader, p rdf.IRI) (T, bool, error) {
	var zero T
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return zero, false, nil
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	v, err := fromTerm[T](r.ctx, t.O)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// GetValues decodes the objects under predicate p using the
// multi-objects strategy: a MultiObjectsMapper registered for []T is
// consulted first, falling back to decoding each object individually
// into a []T when none is registered.
func GetValues[T any](r *ResourceReader, p rdf.IRI) ([]T, error) {
	matches := r.triplesForPredicate(p)
	sliceType := reflect.TypeOf([]T(nil))
	if m, ok := r.ctx.registry.multiObjectsMapperFor(sliceType); ok {
		objects := make([]rdf.Term, 0, len(matches))
		for _, t := range matches {
			r.ctx.markConsumed(t)
			objects = append(objects, t.O)
		}
		v, err := m.FromObjects(objects, r.ctx)
		if err != nil {
			return nil, err
		}
		cast, ok := v.([]T)
		if !ok {
			return nil, &DeserializerNotFoundError{Type: sliceType}
		}
		return cast, nil
	}
	out := make([]T, 0, len(matches))
	for _, t := range matches {
		r.ctx.markConsumed(t)
		v, err := fromTerm[T](r.ctx, t.O)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// RequireRDFList decodes the rdf:List rooted at the object of predicate
// p into a []T, returning CircularRdfListError or
// InvalidRdfListStructureError on a malformed list.
func RequireRDFList[T any](r *ResourceReader, p rdf.IRI) ([]T, error) {
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return nil, &rdf.ConstraintViolationError{Reason: "required rdf:List predicate " + p.Value() + " is absent"}
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	return readRDFList[T](r.ctx, t.O)
}

// OptionalRDFList is RequireRDFList but returns nil, false when absent.
func OptionalRDFList[T any](r *ResourceReader, p rdf.IRI) ([]T, bool, error) {
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return nil, false, nil
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	items, err := readRDFList[T](r.ctx, t.O)
	if err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func readRDFList[T any](ctx *DeserializationContext, head rdf.Term) ([]T, error) {
	var out []T
	visited := make(map[rdf.Term]bool)
	node := head
	for {
		if node.Equal(rdf.RDFNil) {
			break
		}
		if visited[node] {
			if bn, ok := node.(rdf.BlankNode); ok {
				return nil, &rdf.CircularRdfListError{Head: bn}
			}
			return nil, &rdf.InvalidRdfListStructureError{Head: head, Reason: "list contains a cycle"}
		}
		visited[node] = true

		firstTriples := ctx.graph.BySubject(node)
		var first, rest rdf.Term
		for _, t := range firstTriples {
			switch {
			case t.P.Equal(rdf.RDFFirst):
				first = t.O
				ctx.markConsumed(t)
			case t.P.Equal(rdf.RDFRest):
				rest = t.O
				ctx.markConsumed(t)
			}
		}
		if first == nil || rest == nil {
			return nil, &rdf.InvalidRdfListStructureError{Head: head, Reason: "list node missing rdf:first or rdf:rest", Remediation: "ensure every list cell has exactly one rdf:first and one rdf:rest triple"}
		}
		v, err := fromTerm[T](ctx, first)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		node = rest
	}
	return out, nil
}

// ContainerKind selects which numbered-container vocabulary a
// rdf:Seq/Bag/Alt mapper reads or writes.
type ContainerKind int

const (
	// ContainerSeq is an ordered rdf:Seq container.
	ContainerSeq ContainerKind = iota
	// ContainerBag is an unordered rdf:Bag container.
	ContainerBag
	// ContainerAlt is an alternatives rdf:Alt container.
	ContainerAlt
)

func (k ContainerKind) typeIRI() rdf.IRI {
	switch k {
	case ContainerBag:
		return rdf.RDFBag
	case ContainerAlt:
		return rdf.RDFAlt
	default:
		return rdf.RDFSeq
	}
}

// RequireRDFContainer decodes a numbered rdf:Seq/Bag/Alt container
// rooted at the object of predicate p, in rdf:_1, rdf:_2, ... order.
func RequireRDFContainer[T any](r *ResourceReader, p rdf.IRI) ([]T, error) {
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return nil, &rdf.ConstraintViolationError{Reason: "required container predicate " + p.Value() + " is absent"}
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	return readRDFContainer[T](r.ctx, t.O)
}

func readRDFContainer[T any](ctx *DeserializationContext, node rdf.Term) ([]T, error) {
	members := ctx.graph.BySubject(node)
	indexed := make(map[int]rdf.Term)
	max := 0
	for _, t := range members {
		if t.P.Equal(rdf.RDFType) {
			ctx.markConsumed(t)
			continue
		}
		idx, ok := containerMemberIndex(t.P)
		if !ok {
			continue
		}
		indexed[idx] = t.O
		ctx.markConsumed(t)
		if idx > max {
			max = idx
		}
	}
	out := make([]T, 0, len(indexed))
	for i := 1; i <= max; i++ {
		term, ok := indexed[i]
		if !ok {
			continue
		}
		v, err := fromTerm[T](ctx, term)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetMap decodes the entry nodes under predicate p (each carrying a
// MapKeyPredicate/MapValuePredicate pair, as produced by AddMap) into a
// map[K]V.
func GetMap[K comparable, V any](r *ResourceReader, p rdf.IRI) (map[K]V, error) {
	matches := r.triplesForPredicate(p)
	out := make(map[K]V, len(matches))
	for _, t := range matches {
		r.ctx.markConsumed(t)
		entry := r.ctx.Reader(t.O)
		key, err := Require[K](entry, MapKeyPredicate)
		if err != nil {
			return nil, err
		}
		val, err := Require[V](entry, MapValuePredicate)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

// RequireCollection decodes the object of predicate p using strategy,
// dispatching to the matching rdf:List/rdf:Seq/rdf:Bag/rdf:Alt/default
// multi-objects reader.
func RequireCollection[T any](r *ResourceReader, p rdf.IRI, strategy CollectionStrategy) ([]T, error) {
	switch strategy {
	case CollectionRDFList:
		return RequireRDFList[T](r, p)
	case CollectionRDFSeq:
		return requireContainerKind[T](r, p, ContainerSeq)
	case CollectionRDFBag:
		return requireContainerKind[T](r, p, ContainerBag)
	case CollectionRDFAlt:
		return requireContainerKind[T](r, p, ContainerAlt)
	default:
		return GetValues[T](r, p)
	}
}

func requireContainerKind[T any](r *ResourceReader, p rdf.IRI, kind ContainerKind) ([]T, error) {
	matches := r.triplesForPredicate(p)
	if len(matches) == 0 {
		return nil, &rdf.ConstraintViolationError{Reason: "required container predicate " + p.Value() + " is absent"}
	}
	t := matches[0]
	r.ctx.markConsumed(t)
	return readRDFContainer[T](r.ctx, t.O)
}

// CollectionStrategy selects which of the five collection mapper
// strategies RequireCollection/AddCollection applies.
type CollectionStrategy int

const (
	// CollectionMultiObjects is the default, unordered strategy.
	CollectionMultiObjects CollectionStrategy = iota
	// CollectionRDFList is the ordered cons-cell strategy.
	CollectionRDFList
	// CollectionRDFSeq is the ordered numbered-container strategy.
	CollectionRDFSeq
	// CollectionRDFBag is the unordered numbered-container strategy.
	CollectionRDFBag
	// CollectionRDFAlt is the alternatives numbered-container strategy.
	CollectionRDFAlt
)

// AddCollection emits values under predicate p using strategy.
func (b *ResourceBuilder) AddCollection(p rdf.IRI, strategy CollectionStrategy, values interface{}) error {
	switch strategy {
	case CollectionRDFList:
		return b.AddRDFList(p, values)
	case CollectionRDFSeq:
		return b.AddRDFContainer(p, ContainerSeq, values)
	case CollectionRDFBag:
		return b.AddRDFContainer(p, ContainerBag, values)
	case CollectionRDFAlt:
		return b.AddRDFContainer(p, ContainerAlt, values)
	default:
		return b.AddValues(p, values)
	}
}

// GetUnmapped returns every triple rooted at this reader's subject that
// no Require/Optional/GetValues call has consumed yet, intended for a
// mapper's completeness-preservation sink field.
func (r *ResourceReader) GetUnmapped() rdf.Graph {
	var leftover []rdf.Triple
	for _, t := range r.ctx.graph.BySubject(r.subject) {
		if !r.ctx.consumed[t] {
			leftover = append(leftover, t)
			r.ctx.markConsumed(t)
		}
	}
	return rdf.NewGraph(leftover...)
}

// GetUnmappedAs decodes this reader's leftover triples (as GetUnmapped
// does) through the UnmappedTriplesMapper registered for T, for a sink
// field typed as something other than rdf.Graph itself.
func GetUnmappedAs[T any](r *ResourceReader) (T, error) {
	var zero T
	rt := typeOf[T]()
	m, ok := r.ctx.registry.unmappedTriplesMapperFor(rt)
	if !ok {
		return zero, &DeserializerNotFoundError{Type: rt}
	}
	v, err := m.FromGraph(r.GetUnmapped())
	if err != nil {
		return zero, err
	}
	cast, ok := v.(T)
	if !ok {
		return zero, &DeserializerNotFoundError{Type: rt}
	}
	return cast, nil
}

// fromTerm decodes term into a T, trying (in order) a direct term-type
// match (T is itself rdf.Term or a concrete term type), a registered
// IRI/literal mapper keyed by T, and finally a registered resource
// mapper keyed by T.
func fromTerm[T any](ctx *DeserializationContext, term rdf.Term) (T, error) {
	var zero T
	if cast, ok := term.(T); ok {
		return cast, nil
	}
	rt := reflect.TypeOf(zero)
	switch t := term.(type) {
	case rdf.IRI:
		if m, ok := ctx.registry.iriMapperFor(rt); ok {
			if !ctx.registry.iriMapperDirection(rt).allows(false) {
				return zero, &DirectionError{Type: rt, Direction: ctx.registry.iriMapperDirection(rt)}
			}
			v, err := m.FromIRI(t)
			if err != nil {
				return zero, err
			}
			cast, ok := v.(T)
			if !ok {
				return zero, &DeserializerNotFoundError{Type: rt}
			}
			return cast, nil
		}
	case rdf.Literal:
		if m, ok := ctx.registry.literalMapperFor(rt); ok {
			if !ctx.registry.literalMapperDirection(rt).allows(false) {
				return zero, &DirectionError{Type: rt, Direction: ctx.registry.literalMapperDirection(rt)}
			}
			if !t.Datatype().Equal(m.Datatype()) && !ctx.bypassDatatypeCheck {
				return zero, &DeserializerDatatypeMismatchError{Expected: m.Datatype(), Actual: t.Datatype()}
			}
			v, err := m.FromLiteral(t)
			if err != nil {
				return zero, err
			}
			cast, ok := v.(T)
			if !ok {
				return zero, &DeserializerNotFoundError{Type: rt}
			}
			return cast, nil
		}
		if m, ok := ctx.registry.literalMapperForIRI(t.Datatype()); ok {
			v, err := m.FromLiteral(t)
			if err != nil {
				return zero, err
			}
			cast, ok := v.(T)
			if !ok {
				return zero, &DeserializerNotFoundError{Type: rt}
			}
			return cast, nil
		}
	}
	if m, _, ok := ctx.registry.resourceMapperFor(rt); ok {
		if !ctx.registry.resourceMapperDirection(rt).allows(false) {
			return zero, &DirectionError{Type: rt, Direction: ctx.registry.resourceMapperDirection(rt)}
		}
		v, err := m.FromTriples(term, ctx)
		if err != nil {
			return zero, err
		}
		cast, ok := v.(T)
		if !ok {
			return zero, &DeserializerNotFoundError{Type: rt}
		}
		return cast, nil
	}
	return zero, &DeserializerNotFoundError{Type: rt}
}
