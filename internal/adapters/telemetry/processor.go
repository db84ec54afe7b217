package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rewatch/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogProcessor)(nil)

// LogProcessor implements sdktrace.SpanProcessor by logging every finished span.
type LogProcessor struct {
	logger ports.Logger
}

// NewLogProcessor returns a LogProcessor writing to logger.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{logger: logger}
}

// OnStart does nothing.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, status and attributes.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}
	failed := s.Status().Code == codes.Error
	p.logger.Info(FormatSpan(s.Name(), s.EndTime().Sub(s.StartTime()), failed, attributes(s)))
}

// ForceFlush does nothing.
func (p *LogProcessor) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(_ context.Context) error {
	return nil
}

// FormatSpan renders a finished span as a single log line.
func FormatSpan(name string, d time.Duration, failed bool, attrs []string) string {
	status := "ok"
	if failed {
		status = "error"
	}
	line := fmt.Sprintf("trace: %s %s in %s", name, status, d.Round(time.Millisecond))
	if len(attrs) > 0 {
		line += " " + strings.Join(attrs, " ")
	}
	return line
}

func attributes(s sdktrace.ReadOnlySpan) []string {
	kvs := s.Attributes()
	out := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, string(kv.Key)+"="+kv.Value.Emit())
	}
	return out
}

// NewProvider creates a TracerProvider that hands every span to processors.
// Processors are invoked synchronously, so span logs appear in build order.
func NewProvider(processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return sdktrace.NewTracerProvider(opts...)
}
