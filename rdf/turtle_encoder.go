package rdf

import (
	"sort"
	"strings"
)

// IRIRelativizationMode selects how aggressively the Turtle encoder
// rewrites absolute IRIs relative to the configured base.
type IRIRelativizationMode int

const (
	// RelativizationNone never emits a base-relative IRI form.
	RelativizationNone IRIRelativizationMode = iota
	// RelativizationLocal strips the base prefix when an IRI falls
	// directly under it (the prefix-engine's base-relative rule).
	RelativizationLocal
	// RelativizationFull additionally falls back to RFC 3986
	// dot-notation relativization when no prefix or base-prefix match
	// produces a shorter form.
	RelativizationFull
)

// TurtleEncodeOptions configures Turtle rendering.
type TurtleEncodeOptions struct {
	CustomPrefixes            map[string]string
	GenerateMissingPrefixes   bool
	IncludeBaseDeclaration    bool
	BaseIRI                   string
	IRIRelativization         IRIRelativizationMode
	RenderFragmentsAsPrefixed bool
	UseNumericLocalNames      bool
}

type turtleEncoder struct {
	opts        TurtleEncodeOptions
	prefixes    *PrefixTable
	usedPrefix  map[string]bool
	labels      map[Term]string
	refCounts   map[Term]int
	consumed    map[Term]bool // blank nodes rendered inline; excluded from top-level subjects
	listSpines  map[Term]bool // blank nodes that are part of a rendered collection spine
	visiting    map[Term]bool // blank nodes currently being rendered inline, for cycle detection
}

// EncodeTurtle renders g as a Turtle document.
func EncodeTurtle(g Graph, opts TurtleEncodeOptions) string {
	e := &turtleEncoder{
		opts:        opts,
		usedPrefix:  make(map[string]bool),
		consumed:    make(map[Term]bool),
		listSpines:  make(map[Term]bool),
		visiting:    make(map[Term]bool),
		refCounts:   g.objectRefCounts(),
	}
	e.prefixes = NewPrefixTable(DefaultPrefixes)
	for p, ns := range opts.CustomPrefixes {
		e.prefixes.Add(p, ns)
	}
	e.prefixes.SetAutoSynthesize(opts.GenerateMissingPrefixes)
	e.prefixes.SetUseNumericLocalNames(opts.UseNumericLocalNames)
	if opts.IRIRelativization != RelativizationNone {
		e.prefixes.SetBase(opts.BaseIRI)
	}
	e.labels = assignBlankLabels(g)
	e.markInlineCandidates(g)

	var body strings.Builder
	subjects := e.sortedTopLevelSubjects(g)
	for i, s := range subjects {
		if i > 0 {
			body.WriteString("\n\n")
		}
		body.WriteString(e.renderSubjectBlock(g, s))
	}

	var out strings.Builder
	if opts.IncludeBaseDeclaration && opts.BaseIRI != "" {
		out.WriteString("@base <" + opts.BaseIRI + "> .\n")
	}
	prefixLines := e.renderPrefixPreamble()
	if prefixLines != "" {
		out.WriteString(prefixLines)
		if body.Len() > 0 {
			out.WriteString("\n")
		}
	}
	out.WriteString(body.String())
	if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
		out.WriteString("\n")
	}
	return out.String()
}

func (e *turtleEncoder) renderPrefixPreamble() string {
	names := make([]string, 0, len(e.usedPrefix))
	for p := range e.usedPrefix {
		names = append(names, p)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, p := range names {
		ns, _ := e.prefixes.Lookup(p)
		sb.WriteString("@prefix " + p + ": <" + ns + "> .\n")
	}
	return sb.String()
}

// markInlineCandidates detects blank-node subjects eligible for [ ... ]
// inlining or ( ... ) collection folding, and marks the blank nodes they
// consume so the top-level subject pass skips them.
func (e *turtleEncoder) markInlineCandidates(g Graph) {
	for _, s := range g.Subjects() {
		bn, ok := s.(BlankNode)
		if !ok {
			continue
		}
		if e.refCounts[bn] != 1 {
			continue
		}
		if items, spine, ok := collectionItems(g, bn); ok && allRefcountOne(spine, e.refCounts) {
			for _, n := range spine {
				e.consumed[n] = true
				e.listSpines[n] = true
			}
			_ = items
			continue
		}
		e.consumed[bn] = true
	}
}

func allRefcountOne(nodes []Term, counts map[Term]int) bool {
	for _, n := range nodes {
		if counts[n] != 1 {
			return false
		}
	}
	return true
}

// collectionItems walks a candidate rdf:List spine starting at head,
// returning the item terms and the blank nodes forming the spine. ok is
// false if head is not a well-formed, cycle-free rdf:first/rdf:rest
// chain terminating in rdf:nil.
func collectionItems(g Graph, head Term) (items []Term, spine []Term, ok bool) {
	visited := make(map[Term]bool)
	cur := head
	for {
		if cur.Equal(RDFNil) {
			return items, spine, true
		}
		bn, isBN := cur.(BlankNode)
		if !isBN || visited[bn] {
			return nil, nil, false
		}
		visited[bn] = true
		triples := g.BySubject(bn)
		var first, rest Term
		var hasFirst, hasRest bool
		for _, t := range triples {
			switch {
			case t.P.Equal(RDFFirst) && !hasFirst:
				first, hasFirst = t.O, true
			case t.P.Equal(RDFRest) && !hasRest:
				rest, hasRest = t.O, true
			default:
				return nil, nil, false
			}
		}
		if !hasFirst || !hasRest {
			return nil, nil, false
		}
		spine = append(spine, bn)
		items = append(items, first)
		cur = rest
	}
}

// assignBlankLabels assigns stable "b0", "b1", ... labels to every blank
// node in the graph in a deterministic first-encounter order over a
// canonically sorted triple listing.
func assignBlankLabels(g Graph) map[Term]string {
	triples := g.Triples()
	sort.Slice(triples, func(i, j int) bool {
		return canonicalTripleKey(triples[i]) < canonicalTripleKey(triples[j])
	})
	labels := make(map[Term]string)
	gen := newBlankNodeGenerator()
	assign := func(t Term) {
		if bn, ok := t.(BlankNode); ok {
			if _, exists := labels[bn]; !exists {
				labels[bn] = gen.label()
			}
		}
	}
	for _, t := range triples {
		assign(t.S)
		assign(t.O)
	}
	return labels
}

// canonicalTripleKey renders a triple for sort purposes, collapsing
// blank node terms to a content-free placeholder so relative ordering
// does not depend on process-local pointer values.
func canonicalTripleKey(t Triple) string {
	return termSortKey(t.S) + " " + t.P.String() + " " + termSortKey(t.O)
}

func termSortKey(t Term) string {
	if _, ok := t.(BlankNode); ok {
		return "_:?"
	}
	return t.String()
}

func (e *turtleEncoder) sortedTopLevelSubjects(g Graph) []Term {
	all := g.Subjects()
	out := make([]Term, 0, len(all))
	for _, s := range all {
		if bn, ok := s.(BlankNode); ok && e.consumed[bn] {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return subjectSortKey(out[i], e.labels) < subjectSortKey(out[j], e.labels)
	})
	return out
}

func subjectSortKey(t Term, labels map[Term]string) string {
	switch v := t.(type) {
	case IRI:
		return "0:" + v.Value()
	case BlankNode:
		return "1:" + labels[v]
	default:
		return "2:" + t.String()
	}
}

func (e *turtleEncoder) renderSubjectBlock(g Graph, s Term) string {
	triples := g.BySubject(s)
	byPred := make(map[string][]Triple)
	var predOrder []string
	for _, t := range triples {
		key := t.P.Value()
		if _, ok := byPred[key]; !ok {
			predOrder = append(predOrder, key)
		}
		byPred[key] = append(byPred[key], t)
	}
	sort.Slice(predOrder, func(i, j int) bool {
		return predicateSortKey(predOrder[i]) < predicateSortKey(predOrder[j])
	})

	var sb strings.Builder
	sb.WriteString(e.renderTerm(s, RoleSubject))
	for i, predKey := range predOrder {
		group := byPred[predKey]
		isType := group[0].P.Equal(RDFType)
		role := RoleGenericObject
		if isType {
			role = RoleTypeObject
		}
		sort.Slice(group, func(a, b int) bool {
			return e.renderInline(g, group[a].O, role) < e.renderInline(g, group[b].O, role)
		})
		seen := make(map[string]bool)
		var objs []string
		for _, t := range group {
			rendered := e.renderInline(g, t.O, role)
			if seen[rendered] {
				continue
			}
			seen[rendered] = true
			objs = append(objs, rendered)
		}
		predText := "a"
		if !isType {
			predText = e.renderTerm(group[0].P, RolePredicate)
		}
		if i == 0 {
			sb.WriteString(" " + predText + " " + strings.Join(objs, ", "))
		} else {
			sb.WriteString(" ;\n    " + predText + " " + strings.Join(objs, ", "))
		}
	}
	sb.WriteString(" .")
	return sb.String()
}

func predicateSortKey(p string) string {
	if p == RDFType.Value() {
		return "\x00" // "a" sorts first within a subject block
	}
	return p
}

// renderTerm renders a non-blank-node term (IRI or literal) in the given
// syntactic role. Blank-node objects go through renderInline instead,
// since inlining requires access to the source graph.
func (e *turtleEncoder) renderTerm(t Term, role Role) string {
	switch v := t.(type) {
	case IRI:
		return e.renderIRI(v, role)
	case BlankNode:
		return e.renderBlankNode(v)
	case Literal:
		return e.renderLiteral(v)
	default:
		return t.String()
	}
}

func (e *turtleEncoder) renderBlankNode(b BlankNode) string {
	return "_:" + e.labels[b]
}

// renderInline renders a term in object position, folding an eligible
// blank-node object into a collection "( … )" or property list "[ … ]"
// at its use site, or falling back to its label / literal form. Cycle
// safe: a blank node already being expanded higher up the call stack
// (a cycle through consumed/list-spine nodes) re-enters here as its
// plain labeled form instead of recursing forever.
func (e *turtleEncoder) renderInline(g Graph, t Term, role Role) string {
	bn, ok := t.(BlankNode)
	if !ok {
		return e.renderTerm(t, role)
	}
	if e.visiting[bn] {
		return e.renderBlankNode(bn)
	}
	if e.listSpines[bn] {
		if items, _, ok := collectionItems(g, bn); ok {
			e.visiting[bn] = true
			defer delete(e.visiting, bn)
			rendered := make([]string, len(items))
			for i, item := range items {
				rendered[i] = e.renderInline(g, item, RoleGenericObject)
			}
			return "( " + strings.Join(rendered, " ") + " )"
		}
	}
	if e.consumed[bn] {
		triples := g.BySubject(bn)
		if len(triples) == 0 {
			return "[]"
		}
		e.visiting[bn] = true
		defer delete(e.visiting, bn)
		return "[ " + e.renderPredicateObjectList(g, bn, triples) + " ]"
	}
	return e.renderBlankNode(bn)
}

func (e *turtleEncoder) renderPredicateObjectList(g Graph, s Term, triples []Triple) string {
	byPred := make(map[string][]Triple)
	var predOrder []string
	for _, t := range triples {
		key := t.P.Value()
		if _, ok := byPred[key]; !ok {
			predOrder = append(predOrder, key)
		}
		byPred[key] = append(byPred[key], t)
	}
	sort.Slice(predOrder, func(i, j int) bool { return predicateSortKey(predOrder[i]) < predicateSortKey(predOrder[j]) })
	var parts []string
	for _, predKey := range predOrder {
		group := byPred[predKey]
		isType := group[0].P.Equal(RDFType)
		predText := "a"
		role := RoleGenericObject
		if isType {
			role = RoleTypeObject
		} else {
			predText = e.renderTerm(group[0].P, RolePredicate)
		}
		var objs []string
		seen := make(map[string]bool)
		for _, t := range group {
			rendered := e.renderInline(g, t.O, role)
			if seen[rendered] {
				continue
			}
			seen[rendered] = true
			objs = append(objs, rendered)
		}
		parts = append(parts, predText+" "+strings.Join(objs, ", "))
	}
	return strings.Join(parts, " ; ")
}

func (e *turtleEncoder) renderIRI(iri IRI, role Role) string {
	ns := iri.Value()
	if e.opts.RenderFragmentsAsPrefixed {
		saved := e.prefixes.base
		e.prefixes.base = ""
		res := e.prefixes.Compact(ns, role)
		e.prefixes.base = saved
		if res.IsPrefixed {
			e.usedPrefix[res.UsedPrefix] = true
			return res.Text
		}
	}
	res := e.prefixes.Compact(ns, role)
	if res.IsPrefixed {
		e.usedPrefix[res.UsedPrefix] = true
		return res.Text
	}
	if res.IsRelative {
		return "<" + res.Text + ">"
	}
	if e.opts.IRIRelativization == RelativizationFull && e.opts.BaseIRI != "" && role != RolePredicate && role != RoleTypeObject {
		rel := Relativize(e.opts.BaseIRI, ns, DefaultRelativizeOptions())
		if len(rel) < len(ns) {
			return "<" + rel + ">"
		}
	}
	return "<" + ns + ">"
}

func (e *turtleEncoder) renderLiteral(l Literal) string {
	if l.HasLang() {
		return renderStringLiteral(l.Lexical()) + "@" + l.Lang()
	}
	dt := l.Datatype()
	switch {
	case dt.Equal(xsdIRI("integer")) && isCanonicalInteger(l.Lexical()):
		return l.Lexical()
	case dt.Equal(xsdIRI("decimal")) && isCanonicalDecimal(l.Lexical()):
		return l.Lexical()
	case dt.Equal(xsdIRI("boolean")) && (l.Lexical() == "true" || l.Lexical() == "false"):
		return l.Lexical()
	}
	text := renderStringLiteral(l.Lexical())
	if dt.Equal(XSDString) {
		return text
	}
	return text + "^^" + e.renderIRI(dt, RoleGenericObject)
}

func isCanonicalInteger(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i >= len(s) {
		return false
	}
	if s[i] == '0' && i+1 < len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isCanonicalDecimal(s string) bool {
	neg := strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+")
	body := s
	if neg {
		body = s[1:]
	}
	parts := strings.SplitN(body, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	for _, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func renderStringLiteral(lexical string) string {
	hasNL := strings.ContainsAny(lexical, "\n\r")
	hasBothQuotes := strings.Contains(lexical, "\"") && strings.Contains(lexical, "'")
	if hasNL || hasBothQuotes {
		escaped := strings.ReplaceAll(lexical, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, `"""`, `\"\"\"`)
		return `"""` + escaped + `"""`
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range lexical {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
