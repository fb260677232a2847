// Package telemetry implements ports.Tracer on top of OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/frameconv/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogProcessor)(nil)

// LogProcessor is a span processor that writes every finished span to the logger.
type LogProcessor struct {
	logger ports.Logger
}

// NewLogProcessor returns a LogProcessor writing to logger.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{logger: logger}
}

// OnStart does nothing.
func (p *LogProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and attributes.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "event=Span.End name=%s duration=%s", s.Name(), s.EndTime().Sub(s.StartTime()))
	if parent := s.Parent(); parent.IsValid() {
		fmt.Fprintf(&b, " parent=%s", parent.SpanID())
	}
	for _, attr := range s.Attributes() {
		fmt.Fprintf(&b, " %s=%s", attr.Key, attr.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		fmt.Fprintf(&b, " error=%q", s.Status().Description)
		p.logger.Warn(b.String())
		return
	}
	p.logger.Info(b.String())
}

// ForceFlush does nothing; spans are logged synchronously.
func (p *LogProcessor) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(context.Context) error {
	return nil
}
