// Package tracer is the tracing seam of the roster import. Importers depend on
// the Tracer interface; production wires the OpenTelemetry adapter and tests use
// the no-op tracer.
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := tr.Start(ctx, tracer.SpanParse,
//	    tracer.String(tracer.AttrFormat, "csv"),
//	)
//	defer span.End(err)
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the roster import.
const (
	SpanImport   = "roster.import"
	SpanParse    = "roster.parse"
	SpanValidate = "roster.validate"
	SpanCommit   = "roster.commit"
)

// Attribute keys used by the roster import.
const (
	AttrTenantID  = "tenant_id"
	AttrImportID  = "import_id"
	AttrFormat    = "format"
	AttrRows      = "rows"
	AttrValid     = "rows.valid"
	AttrInvalid   = "rows.invalid"
	AttrCommitted = "rows.committed"
	AttrHeaderRow = "header_row"
)

// Event names used by the roster import.
const (
	EventHeaderFound = "header.found"
	EventRowLimit    = "rows.limit_exceeded"
)
