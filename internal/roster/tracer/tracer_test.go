package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := NewNoop().Start(ctx, SpanParse, String(AttrFormat, "csv"))

	assert.Equal(t, ctx, newCtx)
	assert.NotPanics(t, func() {
		span.SetAttributes(Int(AttrRows, 3))
		span.AddEvent(EventHeaderFound, Int(AttrHeaderRow, 1))
		span.End(errors.New("boom"))
	})
}

func TestOTelTracerWithNoopProvider(t *testing.T) {
	tr := NewOTel(WithOTelTracer(noop.NewTracerProvider().Tracer(InstrumentationName)))

	ctx, span := tr.Start(context.Background(), SpanImport, String(AttrTenantID, "t1"))
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() {
		span.SetAttributes(Bool("commit", true), Duration("elapsed", 1500*time.Millisecond))
		span.AddEvent(EventRowLimit)
		span.End(errors.New("too many rows"))
	})
}

func TestToOTelAttributes(t *testing.T) {
	got := toOTelAttributes([]Attribute{
		String("s", "v"),
		Bool("b", true),
		Int("i", 7),
		Duration("d", 2*time.Second),
		{Key: "f", Value: 0.5},
		{Key: "skipped", Value: struct{}{}},
	})

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("s", "v"),
		attribute.Bool("b", true),
		attribute.Int("i", 7),
		attribute.Int64("d", 2000),
		attribute.Float64("f", 0.5),
	}, got)
	assert.Nil(t, toOTelAttributes(nil))
}
