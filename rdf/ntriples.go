package rdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// strictLeniency is the always-off flag set N-Triples/N-Quads parsing
// uses; the format has no tolerance knobs of its own.
var strictLeniency = LeniencyFlags{}

// ParseNTriples decodes an N-Triples document into a graph.
func ParseNTriples(r io.Reader, opts DecodeOptions) (Graph, error) {
	opts = normalizeDecodeOptions(opts)
	reader, err := newLineReader(r, opts)
	if err != nil {
		return Graph{}, err
	}
	g := NewGraph()
	blankNodes := make(map[string]BlankNode)
	lineNo := 0
	for {
		if err := checkDecodeContext(opts.Context); err != nil {
			return Graph{}, err
		}
		line, err := readLineWithLimit(reader, opts.MaxLineBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Graph{}, err
		}
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		s, p, o, _, gerr := parseLineTerms(trimmed, blankNodes, lineNo, false)
		if gerr != nil {
			return Graph{}, gerr
		}
		t, err := NewTriple(s, p, o)
		if err != nil {
			return Graph{}, err
		}
		g = g.Add(t)
	}
	return g, nil
}

// ParseNQuads decodes an N-Quads document into a dataset.
func ParseNQuads(r io.Reader, opts DecodeOptions) (Dataset, error) {
	opts = normalizeDecodeOptions(opts)
	reader, err := newLineReader(r, opts)
	if err != nil {
		return Dataset{}, err
	}
	d := NewDataset()
	blankNodes := make(map[string]BlankNode)
	lineNo := 0
	for {
		if err := checkDecodeContext(opts.Context); err != nil {
			return Dataset{}, err
		}
		line, err := readLineWithLimit(reader, opts.MaxLineBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, err
		}
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		s, p, o, graphTerm, gerr := parseLineTerms(trimmed, blankNodes, lineNo, true)
		if gerr != nil {
			return Dataset{}, gerr
		}
		q, err := NewQuad(s, p, o, graphTerm)
		if err != nil {
			return Dataset{}, err
		}
		d = d.AddQuad(q)
	}
	return d, nil
}

func newLineReader(r io.Reader, opts DecodeOptions) (*bufio.Reader, error) {
	if opts.Context != nil {
		if err := checkDecodeContext(opts.Context); err != nil {
			return nil, err
		}
		r = &contextReader{ctx: opts.Context, r: r}
	}
	return bufio.NewReader(r), nil
}

// parseLineTerms parses one N-Triples/N-Quads statement line (without
// its trailing newline). blankNodes scopes labels to the document.
func parseLineTerms(line string, blankNodes map[string]BlankNode, lineNo int, allowGraph bool) (s Term, p IRI, o Term, g Term, err error) {
	lex := NewLexer(line, strictLeniency)

	s, err = nextSubjectOrGraphTerm(lex, blankNodes, lineNo)
	if err != nil {
		return nil, IRI{}, nil, nil, err
	}
	p, err = nextPredicateTerm(lex, lineNo)
	if err != nil {
		return nil, IRI{}, nil, nil, err
	}
	o, err = nextObjectTerm(lex, blankNodes, lineNo)
	if err != nil {
		return nil, IRI{}, nil, nil, err
	}

	tok, lexErr := lex.Next()
	if lexErr != nil {
		return nil, IRI{}, nil, nil, lexErr
	}
	if allowGraph && tok.Kind != TokDot {
		g, err = termFromToken(tok, blankNodes, lineNo)
		if err != nil {
			return nil, IRI{}, nil, nil, err
		}
		tok, lexErr = lex.Next()
		if lexErr != nil {
			return nil, IRI{}, nil, nil, lexErr
		}
	}
	if tok.Kind != TokDot {
		return nil, IRI{}, nil, nil, &SyntaxError{Line: lineNo, Column: tok.Column, Message: "expected '.' to terminate statement"}
	}
	return s, p, o, g, nil
}

func nextSubjectOrGraphTerm(lex *Lexer, blankNodes map[string]BlankNode, lineNo int) (Term, error) {
	tok, err := lex.Next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokIRI, TokBlankNodeLabel:
		return termFromToken(tok, blankNodes, lineNo)
	default:
		return nil, &SyntaxError{Line: lineNo, Column: tok.Column, Message: "expected IRI or blank node in subject position"}
	}
}

func nextPredicateTerm(lex *Lexer, lineNo int) (IRI, error) {
	tok, err := lex.Next()
	if err != nil {
		return IRI{}, err
	}
	if tok.Kind != TokIRI {
		return IRI{}, &SyntaxError{Line: lineNo, Column: tok.Column, Message: "expected IRI in predicate position"}
	}
	return NewIRIUnchecked(tok.Text), nil
}

func nextObjectTerm(lex *Lexer, blankNodes map[string]BlankNode, lineNo int) (Term, error) {
	tok, err := lex.Next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokIRI, TokBlankNodeLabel:
		return termFromToken(tok, blankNodes, lineNo)
	case TokString:
		return literalFromStringToken(lex, tok, lineNo)
	default:
		return nil, &SyntaxError{Line: lineNo, Column: tok.Column, Message: "expected IRI, blank node or literal in object position"}
	}
}

func termFromToken(tok Token, blankNodes map[string]BlankNode, lineNo int) (Term, error) {
	switch tok.Kind {
	case TokIRI:
		return NewIRIUnchecked(tok.Text), nil
	case TokBlankNodeLabel:
		bn, ok := blankNodes[tok.Text]
		if !ok {
			bn = NewBlankNodeWithHint(tok.Text)
			blankNodes[tok.Text] = bn
		}
		return bn, nil
	default:
		return nil, &SyntaxError{Line: lineNo, Column: tok.Column, Message: "expected IRI or blank node"}
	}
}

func literalFromStringToken(lex *Lexer, strTok Token, lineNo int) (Term, error) {
	peeked, err := lex.Next()
	if err != nil {
		return nil, err
	}
	switch peeked.Kind {
	case TokLangTag:
		return NewLangLiteral(strTok.Text, peeked.Text)
	case TokTypedLiteralMarker:
		dtTok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if dtTok.Kind != TokIRI {
			return nil, &SyntaxError{Line: lineNo, Column: dtTok.Column, Message: "expected datatype IRI after '^^'"}
		}
		return NewTypedLiteral(strTok.Text, NewIRIUnchecked(dtTok.Text))
	default:
		lex.push(peeked)
		return NewLiteral(strTok.Text), nil
	}
}

// EncodeNTriplesOptions configures N-Triples/N-Quads rendering.
type EncodeNTriplesOptions struct {
	// Canonical sorts and deduplicates the statement lines so that
	// identical graphs/datasets produce byte-identical output.
	Canonical bool
}

// EncodeNTriples renders g as an N-Triples document.
func EncodeNTriples(g Graph, opts EncodeNTriplesOptions) string {
	labels := assignBlankLabels(g)
	lines := make([]string, 0, g.Count())
	for _, t := range g.Triples() {
		lines = append(lines, ntripleLine(t.S, t.P, t.O, labels))
	}
	return joinStatementLines(lines, opts.Canonical)
}

// EncodeNQuads renders d as an N-Quads document.
func EncodeNQuads(d Dataset, opts EncodeNTriplesOptions) string {
	allTriples := d.Default.Triples()
	for _, name := range d.GraphNames() {
		g, _ := d.NamedGraph(name)
		allTriples = append(allTriples, g.Triples()...)
	}
	labels := assignBlankLabels(NewGraph(allTriples...))

	lines := make([]string, 0, d.TripleCount())
	for _, t := range d.Default.Triples() {
		lines = append(lines, ntripleLine(t.S, t.P, t.O, labels))
	}
	for _, name := range d.GraphNames() {
		g, _ := d.NamedGraph(name)
		for _, t := range g.Triples() {
			lines = append(lines, ntripleLine(t.S, t.P, t.O, labels)+" "+nquadGraphTerm(name, labels))
		}
	}
	return joinStatementLines(lines, opts.Canonical)
}

func joinStatementLines(lines []string, canonical bool) string {
	if canonical {
		dedup := make(map[string]struct{}, len(lines))
		out := lines[:0:0]
		for _, l := range lines {
			if _, ok := dedup[l]; ok {
				continue
			}
			dedup[l] = struct{}{}
			out = append(out, l)
		}
		sort.Strings(out)
		lines = out
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString(" .\n")
	}
	return sb.String()
}

func ntripleLine(s Term, p IRI, o Term, labels map[Term]string) string {
	return ntripleTerm(s, labels) + " " + "<" + p.Value() + ">" + " " + ntripleTerm(o, labels)
}

func nquadGraphTerm(g Term, labels map[Term]string) string {
	return ntripleTerm(g, labels)
}

func ntripleTerm(t Term, labels map[Term]string) string {
	switch v := t.(type) {
	case IRI:
		return "<" + v.Value() + ">"
	case BlankNode:
		return "_:" + labels[v]
	case Literal:
		text := renderStringLiteral(v.Lexical())
		if v.HasLang() {
			return text + "@" + v.Lang()
		}
		if v.Datatype().Equal(XSDString) {
			return text
		}
		return text + "^^<" + v.Datatype().Value() + ">"
	default:
		return fmt.Sprintf("%v", t)
	}
}
