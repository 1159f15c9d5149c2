package rdf

import (
	"sort"
	"strings"
)

// GraphCodec moves a single default graph to and from one wire format.
type GraphCodec interface {
	ContentType() string
	CanParse(input string) bool
	DecodeGraph(input string) (Graph, error)
	EncodeGraph(g Graph) (string, error)
}

// DatasetCodec moves a multi-graph dataset to and from one wire format.
type DatasetCodec interface {
	ContentType() string
	CanParse(input string) bool
	DecodeDataset(input string) (Dataset, error)
	EncodeDataset(d Dataset) (string, error)
}

// CodecRegistry maps a MIME type to the codec that handles it. Graph
// codecs and dataset codecs are tracked in separate hierarchies, per
// format, since not every format supports both shapes symmetrically.
type CodecRegistry struct {
	graphCodecs   map[string]GraphCodec
	datasetCodecs map[string]DatasetCodec
	order         []string
}

// NewCodecRegistry returns an empty registry.
func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{
		graphCodecs:   make(map[string]GraphCodec),
		datasetCodecs: make(map[string]DatasetCodec),
	}
}

// RegisterGraphCodec adds or replaces the graph codec for its content type.
func (r *CodecRegistry) RegisterGraphCodec(c GraphCodec) {
	if _, ok := r.graphCodecs[c.ContentType()]; !ok {
		r.order = append(r.order, c.ContentType())
	}
	r.graphCodecs[c.ContentType()] = c
}

// RegisterDatasetCodec adds or replaces the dataset codec for its content type.
func (r *CodecRegistry) RegisterDatasetCodec(c DatasetCodec) {
	if _, ok := r.datasetCodecs[c.ContentType()]; !ok {
		r.order = append(r.order, c.ContentType())
	}
	r.datasetCodecs[c.ContentType()] = c
}

// GraphCodecFor looks up a registered graph codec by MIME type.
func (r *CodecRegistry) GraphCodecFor(contentType string) (GraphCodec, bool) {
	c, ok := r.graphCodecs[contentType]
	return c, ok
}

// DatasetCodecFor looks up a registered dataset codec by MIME type.
func (r *CodecRegistry) DatasetCodecFor(contentType string) (DatasetCodec, bool) {
	c, ok := r.datasetCodecs[contentType]
	return c, ok
}

// DetectOptions controls the codec registry's auto-detection strategy.
type DetectOptions struct {
	// TryFullParse enables the final, opt-in detection tier: attempt a
	// full parse with every registered codec, in registration order,
	// and return the first that succeeds. O(codecs × input size); a
	// last resort when every CanParse probe has already failed.
	TryFullParse bool
}

// DetectGraphCodec implements the auto-detection strategy's first two
// tiers: the hinted content type, then every registered codec's
// CanParse in registration order. Equivalent to
// DetectGraphCodecWithOptions with TryFullParse disabled.
func (r *CodecRegistry) DetectGraphCodec(input string, hint string) (GraphCodec, error) {
	return r.DetectGraphCodecWithOptions(input, hint, DetectOptions{})
}

// DetectGraphCodecWithOptions is DetectGraphCodec with the opt-in third
// tier available via opts.TryFullParse.
func (r *CodecRegistry) DetectGraphCodecWithOptions(input string, hint string, opts DetectOptions) (GraphCodec, error) {
	if hint != "" {
		if c, ok := r.graphCodecs[hint]; ok {
			return c, nil
		}
	}
	for _, ct := range r.order {
		if c, ok := r.graphCodecs[ct]; ok && c.CanParse(input) {
			return c, nil
		}
	}
	if opts.TryFullParse {
		for _, ct := range r.order {
			if c, ok := r.graphCodecs[ct]; ok {
				if _, err := c.DecodeGraph(input); err == nil {
					return c, nil
				}
			}
		}
	}
	return nil, &DecoderError{ContentType: hint, Err: ErrUnsupportedFormat}
}

// DetectDatasetCodec is DetectGraphCodec's dataset-hierarchy counterpart.
func (r *CodecRegistry) DetectDatasetCodec(input string, hint string) (DatasetCodec, error) {
	return r.DetectDatasetCodecWithOptions(input, hint, DetectOptions{})
}

// DetectDatasetCodecWithOptions is DetectDatasetCodec with the opt-in
// third tier available via opts.TryFullParse.
func (r *CodecRegistry) DetectDatasetCodecWithOptions(input string, hint string, opts DetectOptions) (DatasetCodec, error) {
	if hint != "" {
		if c, ok := r.datasetCodecs[hint]; ok {
			return c, nil
		}
	}
	for _, ct := range r.order {
		if c, ok := r.datasetCodecs[ct]; ok && c.CanParse(input) {
			return c, nil
		}
	}
	if opts.TryFullParse {
		for _, ct := range r.order {
			if c, ok := r.datasetCodecs[ct]; ok {
				if _, err := c.DecodeDataset(input); err == nil {
					return c, nil
				}
			}
		}
	}
	return nil, &DecoderError{ContentType: hint, Err: ErrUnsupportedFormat}
}

// ContentTypes returns the registered content types, sorted
// alphabetically. A content type registered both as a graph codec and as
// a dataset codec appears twice.
func (r *CodecRegistry) ContentTypes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// RdfCore is the façade over the codec registries: the single entry
// point embedding applications use to move between wire formats and
// in-memory graphs/datasets without naming a concrete codec type.
type RdfCore struct {
	registry *CodecRegistry
}

// NewRdfCore builds a façade pre-registered with the Turtle,
// N-Triples, N-Quads and JSON-LD codecs.
func NewRdfCore() *RdfCore {
	reg := NewCodecRegistry()
	reg.RegisterGraphCodec(turtleGraphCodec{})
	reg.RegisterGraphCodec(ntriplesGraphCodec{})
	reg.RegisterGraphCodec(jsonldGraphCodec{})
	reg.RegisterDatasetCodec(nquadsDatasetCodec{})
	reg.RegisterDatasetCodec(jsonldDatasetCodec{})
	return &RdfCore{registry: reg}
}

// Registry exposes the underlying registry for callers that need to
// register custom codecs.
func (c *RdfCore) Registry() *CodecRegistry { return c.registry }

// Decode parses input as a single graph, using contentType as a hint
// (empty string triggers auto-detection).
func (c *RdfCore) Decode(input, contentType string) (Graph, error) {
	codec, err := c.registry.DetectGraphCodec(input, contentType)
	if err != nil {
		return Graph{}, err
	}
	return codec.DecodeGraph(input)
}

// DecodeWithOptions is Decode with access to the auto-detection
// strategy's opt-in third tier (DetectOptions.TryFullParse).
func (c *RdfCore) DecodeWithOptions(input, contentType string, opts DetectOptions) (Graph, error) {
	codec, err := c.registry.DetectGraphCodecWithOptions(input, contentType, opts)
	if err != nil {
		return Graph{}, err
	}
	return codec.DecodeGraph(input)
}

// Encode renders g using the codec registered for contentType.
func (c *RdfCore) Encode(g Graph, contentType string) (string, error) {
	codec, ok := c.registry.GraphCodecFor(contentType)
	if !ok {
		return "", &EncoderError{ContentType: contentType, Err: ErrUnsupportedFormat}
	}
	return codec.EncodeGraph(g)
}

// DecodeDataset parses input as a dataset, using contentType as a hint.
func (c *RdfCore) DecodeDataset(input, contentType string) (Dataset, error) {
	codec, err := c.registry.DetectDatasetCodec(input, contentType)
	if err != nil {
		return Dataset{}, err
	}
	return codec.DecodeDataset(input)
}

// DecodeDatasetWithOptions is DecodeDataset with access to the
// auto-detection strategy's opt-in third tier (DetectOptions.TryFullParse).
func (c *RdfCore) DecodeDatasetWithOptions(input, contentType string, opts DetectOptions) (Dataset, error) {
	codec, err := c.registry.DetectDatasetCodecWithOptions(input, contentType, opts)
	if err != nil {
		return Dataset{}, err
	}
	return codec.DecodeDataset(input)
}

// EncodeDataset renders d using the codec registered for contentType.
func (c *RdfCore) EncodeDataset(d Dataset, contentType string) (string, error) {
	codec, ok := c.registry.DatasetCodecFor(contentType)
	if !ok {
		return "", &EncoderError{ContentType: contentType, Err: ErrUnsupportedFormat}
	}
	return codec.EncodeDataset(d)
}

// EncodeFormat renders g using the codec registered for format's MIME
// type, for callers that prefer to name a Format rather than a raw
// MIME-type string.
func (c *RdfCore) EncodeFormat(g Graph, format Format) (string, error) {
	return c.Encode(g, format.MimeType())
}

// EncodeDatasetFormat is EncodeFormat for datasets.
func (c *RdfCore) EncodeDatasetFormat(d Dataset, format Format) (string, error) {
	return c.EncodeDataset(d, format.MimeType())
}

// Codec returns an auto-detecting GraphCodec bound to this façade's
// registry: its CanParse and DecodeGraph dispatch through
// DetectGraphCodec. Its EncodeGraph does not encode; it always returns
// an EncoderError wrapping ErrUnsupportedFormat.
func (c *RdfCore) Codec() GraphCodec { return autoGraphCodec{registry: c.registry} }

type autoGraphCodec struct {
	registry *CodecRegistry
}

func (a autoGraphCodec) ContentType() string { return "" }

func (a autoGraphCodec) CanParse(input string) bool {
	_, err := a.registry.DetectGraphCodec(input, "")
	return err == nil
}

func (a autoGraphCodec) DecodeGraph(input string) (Graph, error) {
	codec, err := a.registry.DetectGraphCodec(input, "")
	if err != nil {
		return Graph{}, err
	}
	return codec.DecodeGraph(input)
}

func (a autoGraphCodec) EncodeGraph(g Graph) (string, error) {
	return "", &EncoderError{Err: ErrUnsupportedFormat}
}

// turtleGraphCodec adapts the Turtle parser/encoder pair to GraphCodec.
type turtleGraphCodec struct{}

func (turtleGraphCodec) ContentType() string { return "text/turtle" }

// CanParse reports whether input parses as Turtle under the same options
// DecodeGraph uses.
func (turtleGraphCodec) CanParse(input string) bool {
	_, err := ParseTurtle(input, TurtleDecodeOptions{Leniency: LeniencyFlags{AutoAddCommonPrefixes: true}})
	return err == nil
}

func (turtleGraphCodec) DecodeGraph(input string) (Graph, error) {
	result, err := ParseTurtle(input, TurtleDecodeOptions{Leniency: LeniencyFlags{AutoAddCommonPrefixes: true}})
	if err != nil {
		return Graph{}, err
	}
	return result.Graph, nil
}

func (turtleGraphCodec) EncodeGraph(g Graph) (string, error) {
	return EncodeTurtle(g, TurtleEncodeOptions{GenerateMissingPrefixes: true}), nil
}

// ntriplesGraphCodec adapts the N-Triples parser/encoder pair.
type ntriplesGraphCodec struct{}

func (ntriplesGraphCodec) ContentType() string { return "application/n-triples" }

func (ntriplesGraphCodec) CanParse(input string) bool {
	return looksLikeNTriples(input)
}

func (ntriplesGraphCodec) DecodeGraph(input string) (Graph, error) {
	return ParseNTriples(strings.NewReader(input), DefaultDecodeOptions())
}

func (ntriplesGraphCodec) EncodeGraph(g Graph) (string, error) {
	return EncodeNTriples(g, EncodeNTriplesOptions{}), nil
}

// nquadsDatasetCodec adapts the N-Quads parser/encoder pair.
type nquadsDatasetCodec struct{}

func (nquadsDatasetCodec) ContentType() string { return "application/n-quads" }

func (nquadsDatasetCodec) CanParse(input string) bool {
	return looksLikeNTriples(input)
}

func (nquadsDatasetCodec) DecodeDataset(input string) (Dataset, error) {
	return ParseNQuads(strings.NewReader(input), DefaultDecodeOptions())
}

func (nquadsDatasetCodec) EncodeDataset(d Dataset) (string, error) {
	return EncodeNQuads(d, EncodeNTriplesOptions{}), nil
}

// jsonldGraphCodec adapts the JSON-LD codec to GraphCodec, merging a
// decoded dataset's default graph with every named graph (JSON-LD has
// no Turtle-style distinction once expanded to a single object graph).
type jsonldGraphCodec struct{}

func (jsonldGraphCodec) ContentType() string { return "application/ld+json" }

func (jsonldGraphCodec) CanParse(input string) bool { return CanParseJSONLD(input) }

func (jsonldGraphCodec) DecodeGraph(input string) (Graph, error) {
	d, err := DecodeJSONLD(input, JSONLDDecodeOptions{NamedGraphMode: JSONLDMergeIntoDefault})
	if err != nil {
		return Graph{}, err
	}
	g := d.Default
	for _, name := range d.GraphNames() {
		named, _ := d.NamedGraph(name)
		g = g.Merge(named)
	}
	return g, nil
}

func (jsonldGraphCodec) EncodeGraph(g Graph) (string, error) {
	return EncodeJSONLD(g, JSONLDEncodeOptions{})
}

// jsonldDatasetCodec adapts the JSON-LD codec to DatasetCodec.
type jsonldDatasetCodec struct{}

func (jsonldDatasetCodec) ContentType() string { return "application/ld+json" }

func (jsonldDatasetCodec) CanParse(input string) bool { return CanParseJSONLD(input) }

func (jsonldDatasetCodec) DecodeDataset(input string) (Dataset, error) {
	return DecodeJSONLD(input, JSONLDDecodeOptions{NamedGraphMode: JSONLDStrict})
}

func (jsonldDatasetCodec) EncodeDataset(d Dataset) (string, error) {
	g := d.Default
	for _, name := range d.GraphNames() {
		named, _ := d.NamedGraph(name)
		g = g.Merge(named)
	}
	return EncodeJSONLD(g, JSONLDEncodeOptions{})
}

func looksLikeNTriples(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}
		return trimmed[0] == '<' || strings.HasPrefix(trimmed, "_:")
	}
	return false
}
