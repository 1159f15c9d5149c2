package rdf

import (
	"fmt"
	"strings"
)

// TurtleDecodeOptions configures the Turtle parser.
type TurtleDecodeOptions struct {
	// BaseIRI seeds the document's base IRI; relative IRIs encountered
	// before any @base directive resolve against it.
	BaseIRI string
	// Leniency enables tolerance flags for real-world input.
	Leniency LeniencyFlags
	// InitialPrefixes seeds the prefix table available to prefixed names.
	InitialPrefixes map[string]string
}

// ParseResult is the outcome of parsing a Turtle (or Turtle-family)
// document: the graph it denotes, the prefix table observed (including
// auto-added common prefixes), and the final base IRI in effect.
type ParseResult struct {
	Graph    Graph
	Prefixes map[string]string
	Base     string
}

type turtleParser struct {
	lex        *Lexer
	cur        Token
	curErr     error
	base       string
	prefixes   *PrefixTable
	blankNodes map[string]BlankNode
	graph      Graph
	opts       LeniencyFlags
	anonGen    *blankNodeGenerator
}

// ParseTurtle parses a Turtle document into a graph.
func ParseTurtle(input string, opts TurtleDecodeOptions) (ParseResult, error) {
	seed := opts.InitialPrefixes
	if opts.Leniency.AutoAddCommonPrefixes {
		merged := make(map[string]string, len(DefaultPrefixes)+len(seed))
		for p, ns := range DefaultPrefixes {
			merged[p] = ns
		}
		for p, ns := range seed {
			merged[p] = ns
		}
		seed = merged
	}
	p := &turtleParser{
		lex:        NewLexer(input, opts.Leniency),
		base:       opts.BaseIRI,
		prefixes:   NewPrefixTable(seed),
		blankNodes: make(map[string]BlankNode),
		graph:      NewGraph(),
		opts:       opts.Leniency,
		anonGen:    newBlankNodeGenerator(),
	}
	p.advance()
	for p.cur.Kind != TokEOF {
		if p.curErr != nil {
			return ParseResult{}, p.curErr
		}
		if err := p.parseStatement(); err != nil {
			return ParseResult{}, err
		}
	}
	return ParseResult{Graph: p.graph, Prefixes: p.prefixes.Prefixes(), Base: p.base}, nil
}

func (p *turtleParser) advance() {
	tok, err := p.lex.Next()
	p.cur = tok
	p.curErr = err
}

func (p *turtleParser) syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.cur.Line, Column: p.cur.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *turtleParser) expectDot() error {
	if p.cur.Kind == TokDot {
		p.advance()
		return nil
	}
	if p.opts.AllowMissingDotAfterPrefix {
		return nil
	}
	if p.opts.AllowMissingFinalDot && p.cur.Kind == TokEOF {
		return nil
	}
	return p.syntaxErrorf("expected '.' but found token kind %d", p.cur.Kind)
}

func (p *turtleParser) parseStatement() error {
	switch p.cur.Kind {
	case TokPrefixDecl:
		return p.parsePrefixDecl()
	case TokBaseDecl:
		return p.parseBaseDecl()
	default:
		return p.parseTriples()
	}
}

func (p *turtleParser) parsePrefixDecl() error {
	p.advance() // consume @prefix/PREFIX
	if p.cur.Kind != TokPrefixedName {
		return p.syntaxErrorf("expected prefix name after @prefix")
	}
	prefix := strings.TrimSuffix(p.cur.Text, ":")
	p.advance()
	if p.cur.Kind != TokIRI {
		return p.syntaxErrorf("expected IRI after prefix name")
	}
	ns, err := Resolve(p.base, p.cur.Text)
	if err != nil {
		ns = p.cur.Text
	}
	p.prefixes.Add(prefix, ns)
	p.advance()
	return p.expectDot()
}

func (p *turtleParser) parseBaseDecl() error {
	p.advance() // consume @base/BASE
	if p.cur.Kind != TokIRI {
		return p.syntaxErrorf("expected IRI after @base")
	}
	resolved, err := Resolve(p.base, p.cur.Text)
	if err != nil {
		return err
	}
	p.base = resolved
	p.advance()
	return p.expectDot()
}

func (p *turtleParser) parseTriples() error {
	subj, err := p.parseSubjectTerm()
	if err != nil {
		return err
	}
	if err := p.parsePredicateObjectList(subj); err != nil {
		return err
	}
	return p.expectDot()
}

// parsePredicateObjectList parses "verb objectList (';' verb objectList)?"
// for the given subject, adding each resulting triple to the graph.
func (p *turtleParser) parsePredicateObjectList(subject Term) error {
	for {
		pred, err := p.parsePredicate()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, pred); err != nil {
			return err
		}
		if p.cur.Kind != TokSemicolon {
			return nil
		}
		p.advance()
		// Tolerate a trailing ';' immediately before the statement end.
		if p.cur.Kind == TokDot || p.cur.Kind == TokRBracket || p.cur.Kind == TokEOF {
			return nil
		}
	}
}

func (p *turtleParser) parseObjectList(subject Term, pred IRI) error {
	for {
		obj, err := p.parseObjectTerm()
		if err != nil {
			return err
		}
		t, err := NewTriple(subject, pred, obj)
		if err != nil {
			return err
		}
		p.graph = p.graph.Add(t)
		if p.cur.Kind != TokComma {
			return nil
		}
		p.advance()
	}
}

func (p *turtleParser) parsePredicate() (IRI, error) {
	if p.cur.Kind == TokA {
		p.advance()
		return RDFType, nil
	}
	return p.parseIRITerm()
}

// parseIRITerm resolves the current IRI or prefixed-name token into an
// absolute IRI term and advances past it.
func (p *turtleParser) parseIRITerm() (IRI, error) {
	switch p.cur.Kind {
	case TokIRI:
		resolved, err := Resolve(p.base, p.cur.Text)
		if err != nil {
			return IRI{}, err
		}
		p.advance()
		return NewIRIUnchecked(resolved), nil
	case TokPrefixedName:
		iri, err := p.resolvePrefixedName(p.cur.Text)
		if err != nil {
			return IRI{}, err
		}
		p.advance()
		return iri, nil
	default:
		return IRI{}, p.syntaxErrorf("expected IRI or prefixed name, found token kind %d", p.cur.Kind)
	}
}

func (p *turtleParser) resolvePrefixedName(text string) (IRI, error) {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return IRI{}, &ConstraintViolationError{Reason: "prefixed name missing ':' : " + text}
	}
	prefix := text[:idx]
	local := text[idx+1:]
	ns, ok := p.prefixes.Lookup(prefix)
	if !ok {
		return IRI{}, &ConstraintViolationError{Reason: "unbound prefix: " + prefix}
	}
	return NewIRIUnchecked(ns + local), nil
}

func (p *turtleParser) parseSubjectTerm() (Term, error) {
	switch p.cur.Kind {
	case TokBlankNodeLabel:
		bn := p.blankNode(p.cur.Text)
		p.advance()
		return bn, nil
	case TokLBracket:
		return p.parseBlankNodePropertyList()
	case TokLParen:
		return p.parseCollection()
	default:
		iri, err := p.parseIRITerm()
		if err != nil {
			return nil, err
		}
		return iri, nil
	}
}

func (p *turtleParser) parseObjectTerm() (Term, error) {
	switch p.cur.Kind {
	case TokBlankNodeLabel:
		bn := p.blankNode(p.cur.Text)
		p.advance()
		return bn, nil
	case TokLBracket:
		return p.parseBlankNodePropertyList()
	case TokLParen:
		return p.parseCollection()
	case TokString:
		return p.parseLiteral()
	case TokInteger:
		lit, _ := NewTypedLiteral(p.cur.Text, xsdIRI("integer"))
		p.advance()
		return lit, nil
	case TokDecimal:
		lit, _ := NewTypedLiteral(p.cur.Text, xsdIRI("decimal"))
		p.advance()
		return lit, nil
	case TokDouble:
		lit, _ := NewTypedLiteral(p.cur.Text, xsdIRI("double"))
		p.advance()
		return lit, nil
	case TokBoolean:
		lit, _ := NewTypedLiteral(p.cur.Text, xsdIRI("boolean"))
		p.advance()
		return lit, nil
	default:
		iri, err := p.parseIRITerm()
		if err != nil {
			return nil, err
		}
		return iri, nil
	}
}

func (p *turtleParser) parseLiteral() (Term, error) {
	lexical := p.cur.Text
	p.advance()
	switch p.cur.Kind {
	case TokLangTag:
		lang := p.cur.Text
		p.advance()
		return NewLangLiteral(lexical, lang)
	case TokTypedLiteralMarker:
		p.advance()
		dt, err := p.parseIRITerm()
		if err != nil {
			return nil, err
		}
		return NewTypedLiteral(lexical, dt)
	default:
		return NewLiteral(lexical), nil
	}
}

func (p *turtleParser) blankNode(label string) BlankNode {
	if bn, ok := p.blankNodes[label]; ok {
		return bn
	}
	bn := NewBlankNodeWithHint(label)
	p.blankNodes[label] = bn
	return bn
}

func (p *turtleParser) parseBlankNodePropertyList() (Term, error) {
	p.advance() // '['
	bn := p.anonGen.next()
	if p.cur.Kind == TokRBracket {
		p.advance()
		return bn, nil
	}
	if err := p.parsePredicateObjectList(bn); err != nil {
		return nil, err
	}
	if p.cur.Kind != TokRBracket {
		return nil, p.syntaxErrorf("expected ']' to close blank node property list")
	}
	p.advance()
	return bn, nil
}

func (p *turtleParser) parseCollection() (Term, error) {
	p.advance() // '('
	var items []Term
	for p.cur.Kind != TokRParen {
		if p.cur.Kind == TokEOF {
			return nil, p.syntaxErrorf("unterminated collection")
		}
		item, err := p.parseObjectTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	p.advance() // ')'
	return p.materializeList(items), nil
}

// materializeList builds the rdf:first/rdf:rest/rdf:nil linked-list
// representation of items using fresh blank nodes, adding the spine
// triples to the graph and returning the head term.
func (p *turtleParser) materializeList(items []Term) Term {
	if len(items) == 0 {
		return RDFNil
	}
	head := p.anonGen.next()
	cur := head
	for i, item := range items {
		first, _ := NewTriple(cur, RDFFirst, item)
		p.graph = p.graph.Add(first)
		if i == len(items)-1 {
			rest, _ := NewTriple(cur, RDFRest, RDFNil)
			p.graph = p.graph.Add(rest)
			break
		}
		next := p.anonGen.next()
		rest, _ := NewTriple(cur, RDFRest, next)
		p.graph = p.graph.Add(rest)
		cur = next
	}
	return head
}

func xsdIRI(local string) IRI {
	return NewIRIUnchecked("http://www.w3.org/2001/XMLSchema#" + local)
}

// RDFFirst, RDFRest and RDFNil are the rdf:List vocabulary terms used
// by collection syntax and the rdf:List collection mapper.
var (
	RDFFirst = NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#first")
	RDFRest  = NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#rest")
	RDFNil   = NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#nil")
	RDFSeq   = NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#Seq")
	RDFBag   = NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#Bag")
	RDFAlt   = NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#Alt")
)

// rdfMember returns the rdf:_N container membership predicate IRI.
func rdfMember(n int) IRI {
	return NewIRIUnchecked("http://www.w3.org/1999/02/22-rdf-syntax-ns#_" + itoa(n))
}
