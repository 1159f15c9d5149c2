// Package rdfmapper maps Go values to and from RDF graph fragments: a
// registry of typed mappers, serialization/deserialization contexts
// built on top of a resource reader/builder, and the collection
// strategies (multi-objects, rdf:List, rdf:Seq/Bag/Alt) that encode
// ordered and unordered Go slices as RDF.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
package rdfmapper
