package rx

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/gorx/errors"
	"github.com/kbukum/gorx/logger"
	"github.com/kbukum/gorx/observability"
)

func withTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func spanAttr(span tracetest.SpanStub, key string) attribute.Value {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestWithTracing(t *testing.T) {
	boom := errors.Cancelled("upstream")
	tests := []struct {
		name    string
		p       Producer[int]
		release bool
		outcome string
		values  int64
		status  codes.Code
	}{
		{"completed", Just(1, 2, 3), false, observability.OutcomeCompleted, 3, codes.Unset},
		{"error", Merge(Just(1), Fail[int](boom)), false, observability.OutcomeError, 1, codes.Error},
		{"cancelled", Never[int](), true, observability.OutcomeCancelled, 0, codes.Unset},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exporter := withTestTracer(t)
			sub := WithTracing(context.Background(), tc.p, "numbers").Subscribe(newRecorder[int]())
			if tc.release {
				sub.Release()
				sub.Release()
			}

			spans := exporter.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("expected 1 span, got %d", len(spans))
			}
			span := spans[0]
			if span.Name != observability.SpanSubscribe+" numbers" {
				t.Errorf("unexpected span name %q", span.Name)
			}
			if got := spanAttr(span, observability.AttrOutcome).AsString(); got != tc.outcome {
				t.Errorf("expected outcome %s, got %s", tc.outcome, got)
			}
			if got := spanAttr(span, observability.AttrValues).AsInt64(); got != tc.values {
				t.Errorf("expected %d values, got %d", tc.values, got)
			}
			if spanAttr(span, observability.AttrSubscriptionID).AsString() == "" {
				t.Error("expected a subscription id")
			}
			if span.Status.Code != tc.status {
				t.Errorf("expected status %v, got %v", tc.status, span.Status.Code)
			}
		})
	}
}

func TestWithTracing_SpanPerSubscription(t *testing.T) {
	exporter := withTestTracer(t)
	p := WithTracing(context.Background(), DeferFunc(func() Producer[int] { return Just(1) }), "fresh")
	p.Subscribe(newRecorder[int]())
	p.Subscribe(newRecorder[int]())

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spanAttr(spans[0], observability.AttrSubscriptionID) == spanAttr(spans[1], observability.AttrSubscriptionID) {
		t.Error("expected distinct subscription ids")
	}
}

func TestWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := observability.NewMetrics(mp.Meter("rx-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	WithMetrics(Just(1, 2), "ok", metrics).Subscribe(newRecorder[int]())
	WithMetrics(Defer(func() (Input[int], error) { panic("x") }), "bad", metrics).Subscribe(newRecorder[int]())
	open := WithMetrics(Never[int](), "open", metrics).Subscribe(newRecorder[int]())

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	if sums["subscription.active"] != 1 {
		t.Errorf("expected 1 open subscription, got %d", sums["subscription.active"])
	}
	if sums["subscription.total"] != 2 {
		t.Errorf("expected 2 ended subscriptions, got %d", sums["subscription.total"])
	}
	if sums["subscription.values"] != 2 {
		t.Errorf("expected 2 values, got %d", sums["subscription.values"])
	}
	if sums["error.total"] != 1 {
		t.Errorf("expected 1 error, got %d", sums["error.total"])
	}
	open.Release()
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "rx-test")

	WithLogging(Just(1, 2), "ok", log).Subscribe(newRecorder[int]())
	WithLogging(Fail[int](stderrors.New("boom")), "bad", log).Subscribe(newRecorder[int]())

	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 log lines, got %d: %s", len(lines), buf.String())
	}

	if lines[0]["message"] != "subscribed" || lines[0][logger.FieldStream] != "ok" {
		t.Errorf("unexpected subscribe line: %v", lines[0])
	}
	if lines[0][logger.FieldSubscriptionID] != lines[1][logger.FieldSubscriptionID] {
		t.Error("expected both lines of a subscription to share its id")
	}
	if lines[1][logger.FieldOutcome] != observability.OutcomeCompleted || lines[1][logger.FieldValues] != float64(2) {
		t.Errorf("unexpected end line: %v", lines[1])
	}
	if lines[3]["level"] != "error" || lines[3][logger.FieldError] != "boom" {
		t.Errorf("unexpected failure line: %v", lines[3])
	}
	if lines[3][logger.FieldErrorCode] != "unknown" {
		t.Errorf("expected error_code unknown, got %v", lines[3][logger.FieldErrorCode])
	}
}

func TestWithLogging_NilLoggerUsesRegisteredDefault(t *testing.T) {
	var buf bytes.Buffer
	logger.Register(logger.DefaultComponent,
		logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "rx-test"))
	defer logger.Register(logger.DefaultComponent, nil)

	r := newRecorder[int]()
	WithLogging(Just(1), "default", nil).Subscribe(r)
	r.assertEvents(t, "value(1)", "complete")

	if got := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1; got != 2 {
		t.Errorf("expected 2 lines on the registered logger, got %d: %s", got, buf.String())
	}
}

func TestObservability_PassThrough(t *testing.T) {
	withTestTracer(t)
	metrics, _ := observability.NewMetrics(otel.GetMeterProvider().Meter("noop"))
	src := Merge(Just(1, 2), Fail[int](stderrors.New("boom")))
	wrapped := WithLogging(WithMetrics(WithTracing(context.Background(), src, "s"), "s", metrics), "s", logger.Nop())

	direct, observed := newRecorder[int](), newRecorder[int]()
	src.Subscribe(direct)
	wrapped.Subscribe(observed)
	observed.assertEvents(t, direct.Events()...)
}
