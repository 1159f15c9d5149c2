// Package rdf provides the RDF 1.1 term algebra, graph and dataset
// model, and the codecs (Turtle, N-Triples, N-Quads, JSON-LD) used to
// move between wire formats and in-memory graphs.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// Terms, triples and graphs:
//
//	s, _ := rdf.NewIRI("http://example.org/alice")
//	p := rdf.RDFType
//	o, _ := rdf.NewIRI("http://example.org/Person")
//	t, _ := rdf.NewTriple(s, p, o)
//	g := rdf.NewGraph(t)
//
// Graph is an immutable value-typed set of triples; every mutating
// method (Add, Merge, Subtract, ...) returns a new Graph rather than
// modifying the receiver. Dataset layers named graphs on top of a
// default Graph, keyed by graph-name term.
//
// Codecs read and write a Graph or Dataset directly rather than
// exposing a decoder/encoder stream type:
//
//	result, err := rdf.ParseTurtle(input, rdf.TurtleDecodeOptions{})
//	out := rdf.EncodeTurtle(result.Graph, rdf.TurtleEncodeOptions{})
//
// RdfCore is the façade over the registered codecs for callers that
// want to decode/encode by MIME type or auto-detect the wire format:
//
//	core := rdf.NewRdfCore()
//	g, err := core.Decode(input, "")   // "" triggers auto-detection
//	out, err := core.Encode(g, "text/turtle")
//
// Blank node identity is reference equality (two BlankNode values are
// equal only if they share the same internal identity), never the
// label; labels are carried only as a rendering hint for codecs.
package rdf
