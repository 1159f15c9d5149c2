package rdf

import (
	"sort"
	"strconv"
	"strings"
)

// Role describes the syntactic position an IRI is being compacted for.
// Compaction rules differ by role: predicates and rdf:type objects never
// use the base-relative form, for example.
type Role int

const (
	// RoleSubject is a triple's subject position.
	RoleSubject Role = iota
	// RolePredicate is a triple's predicate position.
	RolePredicate
	// RoleTypeObject is an rdf:type object.
	RoleTypeObject
	// RoleGenericObject is any other object position.
	RoleGenericObject
	// RoleBaseURIContext is an IRI rendered in a context where base
	// relativization is meaningful (e.g. @base itself).
	RoleBaseURIContext
)

// DefaultPrefixes is the curated set of well-known namespace prefixes.
// The exact membership is a policy choice (see design notes); callers
// may freely extend it.
var DefaultPrefixes = map[string]string{
	"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":     "http://www.w3.org/2001/XMLSchema#",
	"owl":     "http://www.w3.org/2002/07/owl#",
	"foaf":    "http://xmlns.com/foaf/0.1/",
	"schema":  "http://schema.org/",
	"dc":      "http://purl.org/dc/elements/1.1/",
	"dcterms": "http://purl.org/dc/terms/",
	"skos":    "http://www.w3.org/2004/02/skos/core#",
	"vcard":   "http://www.w3.org/2006/vcard/ns#",
	"geo":     "http://www.w3.org/2003/01/geo/wgs84_pos#",
	"prov":    "http://www.w3.org/ns/prov#",
	"void":    "http://rdfs.org/ns/void#",
	"time":    "http://www.w3.org/2006/time#",
	"gr":      "http://purl.org/goodrelations/v1#",
}

// PrefixTable maps namespace prefixes to IRIs and supports role-aware
// compaction of absolute IRIs into prefixed or relative forms.
type PrefixTable struct {
	byPrefix map[string]string
	byNS     map[string]string // reverse index, ns -> prefix
	base     string

	autoSynth    bool
	numericLocal bool
	autoCounter  int
}

// NewPrefixTable builds a table seeded with the given prefixes. Pass
// nil to start from an empty table.
func NewPrefixTable(seed map[string]string) *PrefixTable {
	t := &PrefixTable{
		byPrefix: make(map[string]string),
		byNS:     make(map[string]string),
	}
	for p, ns := range seed {
		t.Add(p, ns)
	}
	return t
}

// SetBase sets the base IRI used for base-relative compaction.
func (t *PrefixTable) SetBase(base string) { t.base = base }

// SetAutoSynthesize enables or disables auto-prefix synthesis for IRIs
// that match no registered namespace.
func (t *PrefixTable) SetAutoSynthesize(enabled bool) { t.autoSynth = enabled }

// SetUseNumericLocalNames controls whether local names starting with a
// digit are compacted (Turtle 1.1 permits this; some consumers prefer
// they remain full IRIs for portability).
func (t *PrefixTable) SetUseNumericLocalNames(enabled bool) { t.numericLocal = enabled }

// Add registers a prefix -> namespace mapping, overwriting any existing
// binding for the same prefix.
func (t *PrefixTable) Add(prefix, namespace string) {
	t.byPrefix[prefix] = namespace
	if _, exists := t.byNS[namespace]; !exists {
		t.byNS[namespace] = prefix
	}
}

// Lookup returns the namespace bound to prefix, if any.
func (t *PrefixTable) Lookup(prefix string) (string, bool) {
	ns, ok := t.byPrefix[prefix]
	return ns, ok
}

// PrefixFor returns the prefix bound to namespace, if any.
func (t *PrefixTable) PrefixFor(namespace string) (string, bool) {
	p, ok := t.byNS[namespace]
	return p, ok
}

// Prefixes returns a copy of the prefix -> namespace table. The result is
// a map, so iterating it yields no defined order.
func (t *PrefixTable) Prefixes() map[string]string {
	out := make(map[string]string, len(t.byPrefix))
	for p, ns := range t.byPrefix {
		out[p] = ns
	}
	return out
}

// sortedPrefixNames returns prefixes with longer namespace URIs first,
// so the longest-namespace-match-wins rule can scan in order.
func (t *PrefixTable) sortedPrefixNames() []string {
	names := make([]string, 0, len(t.byPrefix))
	for p := range t.byPrefix {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool {
		return len(t.byPrefix[names[i]]) > len(t.byPrefix[names[j]])
	})
	return names
}

// CompactionResult is the outcome of compacting one IRI.
type CompactionResult struct {
	// Text is the rendered form: relative, "prefix:local", or the
	// original absolute IRI wrapped in angle brackets by the caller.
	Text string
	// IsPrefixed reports whether Text is a "prefix:local" form.
	IsPrefixed bool
	// IsRelative reports whether Text is a base-relative form.
	IsRelative bool
	// UsedPrefix is the prefix used, when IsPrefixed is true.
	UsedPrefix string
}

// Compact applies the compaction procedure of §4.2 to iri for the given
// role. It never fails: when no compaction applies, Text is the
// unmodified absolute IRI.
func (t *PrefixTable) Compact(iri string, role Role) CompactionResult {
	if role != RolePredicate && role != RoleTypeObject && t.base != "" && strings.HasPrefix(iri, t.base) {
		rel := strings.TrimPrefix(iri, t.base)
		if rel != "" || role != RoleTypeObject {
			return CompactionResult{Text: rel, IsRelative: true}
		}
	}

	for _, prefix := range t.sortedPrefixNames() {
		ns := t.byPrefix[prefix]
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		local := iri[len(ns):]
		if local == "" && role == RoleTypeObject {
			// Type objects never use the empty local name ":".
			continue
		}
		if !t.validLocal(local) {
			continue
		}
		return CompactionResult{Text: prefix + ":" + local, IsPrefixed: true, UsedPrefix: prefix}
	}

	if t.autoSynth {
		ns, local, ok := splitNamespace(iri)
		if ok && t.validLocal(local) && (local != "" || role != RoleTypeObject) {
			prefix := t.synthesizePrefix(ns)
			t.Add(prefix, ns)
			return CompactionResult{Text: prefix + ":" + local, IsPrefixed: true, UsedPrefix: prefix}
		}
	}

	return CompactionResult{Text: iri}
}

// validLocal reports whether local is a valid, round-trip-safe PN_LOCAL.
func (t *PrefixTable) validLocal(local string) bool {
	if local == "" {
		return true
	}
	if strings.Contains(local, "%") {
		// Percent-escapes would change meaning when re-parsed through
		// PN_LOCAL grammar; render the full IRI instead.
		return false
	}
	if !t.numericLocal && local[0] >= '0' && local[0] <= '9' {
		return false
	}
	return isPNLocal(local)
}

// isPNLocal implements the Turtle 1.1 PN_LOCAL grammar constraints
// described in §4.2: cannot start with "." or "-", cannot end with ".",
// no "..", no "-.", first character must be a letter, digit, "_", "%"
// or "\\".
func isPNLocal(local string) bool {
	if local == "" {
		return false
	}
	if local[0] == '.' || local[0] == '-' {
		return false
	}
	if local[len(local)-1] == '.' {
		return false
	}
	if strings.Contains(local, "..") || strings.Contains(local, "-.") {
		return false
	}
	first := rune(local[0])
	if !(isLetter(first) || isDigit(first) || first == '_' || first == '%' || first == '\\') {
		return false
	}
	for i := 1; i < len(local); i++ {
		ch := rune(local[i])
		if isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '.' || ch == '%' || ch == '\\' || ch == ':' {
			continue
		}
		if ch > 127 {
			continue
		}
		return false
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// splitNamespace splits iri into a namespace and local name at the last
// "#" or, failing that, the last "/".
func splitNamespace(iri string) (ns, local string, ok bool) {
	if idx := strings.LastIndex(iri, "#"); idx >= 0 {
		return iri[:idx+1], iri[idx+1:], true
	}
	if idx := strings.LastIndex(iri, "/"); idx >= 0 {
		return iri[:idx+1], iri[idx+1:], true
	}
	return "", "", false
}

// synthesizePrefix invents a short, unused prefix for namespace, using
// initials of hyphenated domain/path components (e.g.
// "test-complex-ontology" -> "tco"), falling back to a numbered "nsN".
func (t *PrefixTable) synthesizePrefix(namespace string) string {
	candidate := initialsFromNamespace(namespace)
	if candidate != "" {
		if _, taken := t.byPrefix[candidate]; !taken {
			return candidate
		}
	}
	for {
		t.autoCounter++
		name := candidate
		if name == "" {
			name = "ns"
		}
		name = name + strconv.Itoa(t.autoCounter)
		if _, taken := t.byPrefix[name]; !taken {
			return name
		}
	}
}

// initialsFromNamespace extracts a short candidate prefix from a
// namespace IRI's host/path components, using the initials of
// hyphen-separated words.
func initialsFromNamespace(namespace string) string {
	trimmed := strings.TrimRight(namespace, "#/")
	segs := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '/' || r == '.' || r == ':'
	})
	if len(segs) == 0 {
		return ""
	}
	last := segs[len(segs)-1]
	words := strings.FieldsFunc(last, func(r rune) bool { return r == '-' || r == '_' })
	if len(words) <= 1 {
		if len(last) >= 2 {
			return strings.ToLower(last[:2])
		}
		return strings.ToLower(last)
	}
	var sb strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		sb.WriteString(strings.ToLower(string(w[0])))
	}
	return sb.String()
}
