package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/policy/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to bridge phase spans to a Renderer.
// Spans without the phase attribute are ignored.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() || !isPhase(s.Attributes()) {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}

	b.renderer.OnPhaseStart(
		sc.SpanID().String(),
		parentID,
		s.Name(),
		s.StartTime(),
	)
}

// OnEnd is called when a span ends. Log events recorded on the span are
// replayed to the renderer before the completion notice.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() || !isPhase(s.Attributes()) {
		return
	}
	spanID := sc.SpanID().String()

	for _, event := range s.Events() {
		if event.Name != LogEvent {
			continue
		}
		for _, attr := range event.Attributes {
			if attr.Key == MessageAttribute {
				b.renderer.OnPhaseLog(spanID, []byte(attr.Value.AsString()))
			}
		}
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "phase failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnPhaseComplete(spanID, s.EndTime(), err)
}

// ForceFlush flushes the renderer.
func (b *Bridge) ForceFlush(_ context.Context) error {
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Flush()
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func isPhase(attrs []attribute.KeyValue) bool {
	for _, attr := range attrs {
		if attr.Key == PhaseAttribute {
			return attr.Value.AsBool()
		}
	}
	return false
}
