package rdf

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

// JSONLDNamedGraphMode governs how the JSON-LD decoder handles @graph
// blocks that carry an explicit @id (i.e. named graphs).
type JSONLDNamedGraphMode string

const (
	// JSONLDStrict rejects any named @graph block.
	JSONLDStrict JSONLDNamedGraphMode = "strict"
	// JSONLDIgnoreNamedGraphs drops named graphs, keeping only the default graph.
	JSONLDIgnoreNamedGraphs JSONLDNamedGraphMode = "ignore_named_graphs"
	// JSONLDMergeIntoDefault flattens every named graph into the default graph.
	JSONLDMergeIntoDefault JSONLDNamedGraphMode = "merge_into_default"
)

// JSONLDDecodeOptions configures JSON-LD decoding.
type JSONLDDecodeOptions struct {
	NamedGraphMode JSONLDNamedGraphMode
	BaseIRI        string
}

// JSONLDEncodeOptions configures JSON-LD encoding.
type JSONLDEncodeOptions struct {
	CustomPrefixes map[string]string
	BaseIRI        string
}

// CanParseJSONLD implements the registry's canParse heuristic: the
// input must look like JSON (starts with '{' or '[' after whitespace)
// and contain at least one JSON-LD keyword as an object key, not
// merely as a substring somewhere in a string value.
func CanParseJSONLD(input string) bool {
	trimmed := strings.TrimLeft(input, " \t\r\n")
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	var probe interface{}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return false
	}
	return containsJSONLDKeyword(probe)
}

func containsJSONLDKeyword(v interface{}) bool {
	switch val := v.(type) {
	case map[string]interface{}:
		for _, kw := range []string{"@context", "@id", "@type", "@graph", "@value"} {
			if _, ok := val[kw]; ok {
				return true
			}
		}
		for _, child := range val {
			if containsJSONLDKeyword(child) {
				return true
			}
		}
	case []interface{}:
		for _, child := range val {
			if containsJSONLDKeyword(child) {
				return true
			}
		}
	}
	return false
}

// DecodeJSONLD decodes a JSON-LD document into a dataset, delegating
// context resolution and expansion to json-gold and converting the
// resulting N-Quads-shaped dataset into rdf terms.
func DecodeJSONLD(input string, opts JSONLDDecodeOptions) (Dataset, error) {
	mode := opts.NamedGraphMode
	if mode == "" {
		mode = JSONLDStrict
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return Dataset{}, &SyntaxError{Message: "invalid JSON: " + err.Error()}
	}

	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	goldOpts.ProduceGeneralizedRdf = true
	result, err := ld.NewJsonLdProcessor().ToRDF(doc, goldOpts)
	if err != nil {
		return Dataset{}, &ConstraintViolationError{Reason: "jsonld expansion failed: " + err.Error()}
	}
	rdfDataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return Dataset{}, &ConstraintViolationError{Reason: fmt.Sprintf("unexpected json-gold ToRDF result type %T", result)}
	}

	if mode == JSONLDStrict {
		for name := range rdfDataset.Graphs {
			if name != "@default" {
				return Dataset{}, &ConstraintViolationError{Reason: "named graph not permitted under strict named-graph mode: " + name}
			}
		}
	}

	dataset := NewDataset()
	blankNodes := make(map[string]BlankNode)
	for name, quads := range rdfDataset.Graphs {
		named := name != "@default"
		if named && mode == JSONLDIgnoreNamedGraphs {
			continue
		}
		var graphTerm Term
		if named && mode != JSONLDMergeIntoDefault {
			gt, err := ldGraphNameToTerm(name, blankNodes)
			if err != nil {
				return Dataset{}, err
			}
			graphTerm = gt
		}
		for _, quad := range quads {
			s, err := ldNodeToTerm(quad.Subject, blankNodes)
			if err != nil {
				return Dataset{}, err
			}
			predNode, ok := quad.Predicate.(*ld.IRI)
			if !ok {
				return Dataset{}, &ConstraintViolationError{Reason: "jsonld predicate must expand to an IRI"}
			}
			o, err := ldNodeToTerm(quad.Object, blankNodes)
			if err != nil {
				return Dataset{}, err
			}
			if err := addQuad(&dataset, s, NewIRIUnchecked(predNode.Value), o, graphTerm); err != nil {
				return Dataset{}, err
			}
		}
	}
	return dataset, nil
}

func ldGraphNameToTerm(name string, blankNodes map[string]BlankNode) (Term, error) {
	if strings.HasPrefix(name, "_:") {
		return freshOrNamedBlank(name, blankNodes), nil
	}
	return NewIRIUnchecked(name), nil
}

func ldNodeToTerm(node ld.Node, blankNodes map[string]BlankNode) (Term, error) {
	switch v := node.(type) {
	case *ld.IRI:
		return NewIRIUnchecked(v.Value), nil
	case *ld.BlankNode:
		return freshOrNamedBlank("_:"+v.Attribute, blankNodes), nil
	case *ld.Literal:
		if v.Language != "" {
			return NewLangLiteral(v.Value, v.Language)
		}
		if v.Datatype != "" && v.Datatype != ld.XSDString {
			return NewTypedLiteral(v.Value, NewIRIUnchecked(v.Datatype))
		}
		return NewLiteral(v.Value), nil
	default:
		return nil, &ConstraintViolationError{Reason: fmt.Sprintf("unsupported json-gold node type %T", node)}
	}
}

func freshOrNamedBlank(label string, blankNodes map[string]BlankNode) BlankNode {
	if label == "" || label == "_:" {
		return NewBlankNode()
	}
	if bn, ok := blankNodes[label]; ok {
		return bn
	}
	bn := NewBlankNodeWithHint(label)
	blankNodes[label] = bn
	return bn
}

func addQuad(d *Dataset, s Term, p IRI, o Term, g Term) error {
	q, err := NewQuad(s, p, o, g)
	if err != nil {
		return err
	}
	*d = d.AddQuad(q)
	return nil
}

// EncodeJSONLD renders g as a JSON-LD document: a single object if the
// graph has exactly one subject, otherwise @context + @graph.
func EncodeJSONLD(g Graph, opts JSONLDEncodeOptions) (string, error) {
	prefixes := NewPrefixTable(mergePrefixMaps(DefaultPrefixes, opts.CustomPrefixes))
	if opts.BaseIRI != "" {
		prefixes.SetBase(opts.BaseIRI)
	}
	labels := assignBlankLabels(g)
	usedPrefixes := make(map[string]bool)

	subjects := sortedJSONLDSubjects(g, labels)
	nodes := make([]map[string]interface{}, 0, len(subjects))
	for _, s := range subjects {
		node, err := encodeSubjectNode(g, s, prefixes, labels, usedPrefixes)
		if err != nil {
			return "", err
		}
		nodes = append(nodes, node)
	}

	doc := make(map[string]interface{})
	context := buildContextObject(prefixes, usedPrefixes, opts.BaseIRI)

	if len(nodes) == 1 {
		for k, v := range nodes[0] {
			doc[k] = v
		}
		if len(context) > 0 {
			doc["@context"] = context
		}
	} else {
		if len(context) > 0 {
			doc["@context"] = context
		}
		graphArr := make([]interface{}, len(nodes))
		for i, n := range nodes {
			graphArr[i] = n
		}
		doc["@graph"] = graphArr
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func mergePrefixMaps(base, custom map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(custom))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range custom {
		merged[k] = v
	}
	return merged
}

func buildContextObject(prefixes *PrefixTable, used map[string]bool, base string) map[string]interface{} {
	ctx := make(map[string]interface{})
	for prefix, ns := range prefixes.Prefixes() {
		if used[prefix] {
			ctx[prefix] = ns
		}
	}
	if base != "" {
		ctx["@base"] = base
	}
	return ctx
}

func sortedJSONLDSubjects(g Graph, labels map[Term]string) []Term {
	subjects := g.Subjects()
	sort.Slice(subjects, func(i, j int) bool {
		return subjectSortKey(subjects[i], labels) < subjectSortKey(subjects[j], labels)
	})
	return subjects
}

func encodeSubjectNode(g Graph, s Term, prefixes *PrefixTable, labels map[Term]string, used map[string]bool) (map[string]interface{}, error) {
	node := make(map[string]interface{})
	node["@id"] = encodeNodeRef(s, prefixes, labels, used, RoleSubject)

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
	sort.Strings(predOrder)

	var types []string
	for _, key := range predOrder {
		group := byPred[key]
		if key == RDFType.Value() {
			for _, t := range group {
				if iri, ok := t.O.(IRI); ok {
					types = append(types, encodeNodeRef(iri, prefixes, labels, used, RoleTypeObject).(string))
				}
			}
			continue
		}
		predName := renderJSONLDIRI(NewIRIUnchecked(key), prefixes, used, RolePredicate)
		values := make([]interface{}, 0, len(group))
		for _, t := range group {
			v, err := encodeJSONLDValue(t.O, prefixes, labels, used)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if len(values) == 1 {
			node[predName] = values[0]
		} else {
			node[predName] = values
		}
	}
	if len(types) == 1 {
		node["@type"] = types[0]
	} else if len(types) > 1 {
		node["@type"] = types
	}
	return node, nil
}

func encodeNodeRef(t Term, prefixes *PrefixTable, labels map[Term]string, used map[string]bool, role Role) interface{} {
	switch v := t.(type) {
	case IRI:
		return renderJSONLDIRI(v, prefixes, used, role)
	case BlankNode:
		return "_:" + labels[v]
	default:
		return nil
	}
}

func renderJSONLDIRI(iri IRI, prefixes *PrefixTable, used map[string]bool, role Role) string {
	res := prefixes.Compact(iri.Value(), role)
	if res.IsPrefixed {
		used[res.UsedPrefix] = true
	}
	return res.Text
}

func encodeJSONLDValue(t Term, prefixes *PrefixTable, labels map[Term]string, used map[string]bool) (interface{}, error) {
	switch v := t.(type) {
	case IRI:
		return map[string]interface{}{"@id": renderJSONLDIRI(v, prefixes, used, RoleGenericObject)}, nil
	case BlankNode:
		return map[string]interface{}{"@id": "_:" + labels[v]}, nil
	case Literal:
		return encodeJSONLDLiteral(v), nil
	default:
		return nil, &ConstraintViolationError{Reason: "unsupported term kind in JSON-LD value position"}
	}
}

func encodeJSONLDLiteral(l Literal) interface{} {
	if l.HasLang() {
		return map[string]interface{}{"@value": l.Lexical(), "@language": l.Lang()}
	}
	dt := l.Datatype()
	switch dt.Value() {
	case xsdIRI("integer").Value():
		if n, err := strconv.ParseInt(l.Lexical(), 10, 64); err == nil {
			return n
		}
	case xsdIRI("decimal").Value(), xsdIRI("double").Value():
		if f, err := strconv.ParseFloat(l.Lexical(), 64); err == nil {
			return f
		}
	case xsdIRI("boolean").Value():
		if b, err := strconv.ParseBool(l.Lexical()); err == nil {
			return b
		}
	}
	if dt.Equal(XSDString) {
		return l.Lexical()
	}
	return map[string]interface{}{"@value": l.Lexical(), "@type": dt.Value()}
}
