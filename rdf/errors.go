package rdf

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates an unsupported format or MIME type.
var ErrUnsupportedFormat = errors.New("unsupported RDF format")

// ErrLineTooLong indicates a decoder's line-length safety limit was exceeded.
var ErrLineTooLong = errors.New("rdf: line exceeds maximum length")

// ErrStatementTooLong indicates a decoder's statement-length safety limit was exceeded.
var ErrStatementTooLong = errors.New("rdf: statement exceeds maximum length")

// SyntaxError reports a malformed token stream: unterminated strings,
// unexpected tokens, or any other structural parse failure. It always
// carries a line/column position.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rdf: syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// ConstraintViolationError reports a structurally valid but semantically
// forbidden construct: a blank node in predicate position, a language
// tag on a non-langString literal, an invalid IRI form, and similar.
type ConstraintViolationError struct {
	Reason string
}

func (e *ConstraintViolationError) Error() string {
	return "rdf: constraint violation: " + e.Reason
}

// MissingBaseError reports that a relative IRI was encountered with no
// base IRI available to resolve it against.
type MissingBaseError struct {
	Relative string
}

func (e *MissingBaseError) Error() string {
	return fmt.Sprintf("rdf: missing base IRI to resolve relative reference %q", e.Relative)
}

// DecoderError wraps a failure to obtain a decoder for a MIME type.
type DecoderError struct {
	ContentType string
	Err         error
}

func (e *DecoderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rdf: no decoder for content type %q: %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("rdf: no decoder for content type %q", e.ContentType)
}

func (e *DecoderError) Unwrap() error { return e.Err }

// EncoderError wraps a failure to obtain an encoder for a MIME type.
type EncoderError struct {
	ContentType string
	Err         error
}

func (e *EncoderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rdf: no encoder for content type %q: %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("rdf: no encoder for content type %q", e.ContentType)
}

func (e *EncoderError) Unwrap() error { return e.Err }

// CircularRdfListError reports a cyclic rdf:List structure rooted at Head.
type CircularRdfListError struct {
	Head BlankNode
}

func (e *CircularRdfListError) Error() string {
	return fmt.Sprintf("rdf: circular rdf:List detected at %s", e.Head.String())
}

// InvalidRdfListStructureError reports a malformed rdf:first/rdf:rest chain.
type InvalidRdfListStructureError struct {
	Head        Term
	Reason      string
	Remediation string
}

func (e *InvalidRdfListStructureError) Error() string {
	msg := fmt.Sprintf("rdf: invalid rdf:List structure at %s: %s", e.Head.String(), e.Reason)
	if e.Remediation != "" {
		msg += " (" + e.Remediation + ")"
	}
	return msg
}
