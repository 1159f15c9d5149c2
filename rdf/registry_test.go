package rdf

import "testing"

// pickyGraphCodec never admits it can parse anything via CanParse, but
// DecodeGraph succeeds for inputs starting with the given prefix. Used to
// exercise the auto-detection strategy's opt-in brute-force tier, which
// only triggers once every CanParse probe has already failed.
type pickyGraphCodec struct {
	contentType string
	prefix      string
}

func (p pickyGraphCodec) ContentType() string { return p.contentType }
func (p pickyGraphCodec) CanParse(string) bool { return false }
func (p pickyGraphCodec) DecodeGraph(input string) (Graph, error) {
	if len(input) >= len(p.prefix) && input[:len(p.prefix)] == p.prefix {
		return NewGraph(), nil
	}
	return Graph{}, &DecoderError{ContentType: p.contentType, Err: ErrUnsupportedFormat}
}
func (p pickyGraphCodec) EncodeGraph(Graph) (string, error) { return "", nil }

func TestDetectGraphCodecHintTakesPriority(t *testing.T) {
	reg := NewCodecRegistry()
	reg.RegisterGraphCodec(turtleGraphCodec{})
	reg.RegisterGraphCodec(ntriplesGraphCodec{})
	codec, err := reg.DetectGraphCodec(`<http://example.org/s> <http://example.org/p> "v" .`, "text/turtle")
	if err != nil {
		t.Fatalf("DetectGraphCodec: %v", err)
	}
	if codec.ContentType() != "text/turtle" {
		t.Errorf("expected the hinted codec to win, got %q", codec.ContentType())
	}
}

func TestDetectGraphCodecFallsBackToCanParse(t *testing.T) {
	reg := NewCodecRegistry()
	reg.RegisterGraphCodec(ntriplesGraphCodec{})
	codec, err := reg.DetectGraphCodec(`<http://example.org/s> <http://example.org/p> "v" .`+"\n", "")
	if err != nil {
		t.Fatalf("DetectGraphCodec: %v", err)
	}
	if codec.ContentType() != "application/n-triples" {
		t.Errorf("expected N-Triples to be detected via CanParse, got %q", codec.ContentType())
	}
}

func TestDetectGraphCodecWithoutTryFullParseFails(t *testing.T) {
	reg := NewCodecRegistry()
	reg.RegisterGraphCodec(pickyGraphCodec{contentType: "application/x-example", prefix: "EXAMPLE"})
	_, err := reg.DetectGraphCodec("EXAMPLE-DATA", "")
	if err == nil {
		t.Fatal("expected detection to fail when no codec's CanParse matches and TryFullParse is disabled")
	}
}

func TestDetectGraphCodecWithOptionsTriesFullParse(t *testing.T) {
	reg := NewCodecRegistry()
	reg.RegisterGraphCodec(pickyGraphCodec{contentType: "application/x-example", prefix: "EXAMPLE"})
	codec, err := reg.DetectGraphCodecWithOptions("EXAMPLE-DATA", "", DetectOptions{TryFullParse: true})
	if err != nil {
		t.Fatalf("expected the brute-force tier to find the codec via DecodeGraph, got: %v", err)
	}
	if codec.ContentType() != "application/x-example" {
		t.Errorf("expected the picky codec to be detected, got %q", codec.ContentType())
	}
}

func TestRdfCoreDecodeWithOptionsUsesFullParseTier(t *testing.T) {
	core := NewRdfCore()
	core.Registry().RegisterGraphCodec(pickyGraphCodec{contentType: "application/x-example", prefix: "EXAMPLE"})
	_, err := core.Decode("EXAMPLE-DATA", "")
	if err == nil {
		t.Fatal("expected plain Decode to fail without the opt-in brute-force tier")
	}
	_, err = core.DecodeWithOptions("EXAMPLE-DATA", "", DetectOptions{TryFullParse: true})
	if err != nil {
		t.Fatalf("expected DecodeWithOptions to succeed via the brute-force tier, got: %v", err)
	}
}
