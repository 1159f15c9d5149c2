package rdf

import "context"

const (
	DefaultMaxLineBytes      = 1 << 20
	DefaultMaxStatementBytes = 4 << 20
)

// DecodeOptions configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type DecodeOptions struct {
	MaxLineBytes      int
	MaxStatementBytes int
	// AllowQuotedTripleStatement is carried on the options but is not
	// read by any decoder in this package; quoted triple statements are
	// not parsed.
	AllowQuotedTripleStatement bool
	// DebugStatements is carried on the options but is not read by any
	// decoder in this package; parse errors are not wrapped with the
	// offending statement.
	DebugStatements bool
	// AllowEnvOverrides is carried on the options but is not read by any
	// decoder in this package; environment variables are not consulted.
	AllowEnvOverrides bool
	// Context provides cancellation for decoding work.
	Context context.Context
}

// DefaultDecodeOptions returns safe defaults for parser limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxLineBytes:      DefaultMaxLineBytes,
		MaxStatementBytes: DefaultMaxStatementBytes,
	}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.MaxStatementBytes == 0 {
		opts.MaxStatementBytes = DefaultMaxStatementBytes
	}
	return opts
}
