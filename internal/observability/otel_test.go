package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/elevatehq/go-booking-bot/internal/config"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabledConfig() config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: "booking-bot-test",
		SampleRatio: 1.0,
	}
}

func TestSetup_DisabledIsNoOp(t *testing.T) {
	restoreGlobals(t)

	before := otel.GetTracerProvider()
	shutdown, err := Setup(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("disabled setup must not replace the tracer provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned error: %v", err)
	}
}

func TestSetup_InstallsSDKProvider(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := Setup(context.Background(), enabledConfig(), "v1.0.0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()
		_ = shutdown(ctx)
	}()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("expected the SDK tracer provider to be installed")
	}

	// Span creation must work end to end even with no collector listening.
	_, span := otel.Tracer("smoke").Start(context.Background(), "root")
	span.End()
}

func TestSetup_ExporterErrorLeavesGlobalsIntact(t *testing.T) {
	restoreGlobals(t)

	orig := newExporter
	defer func() { newExporter = orig }()
	newExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter down")
	}

	before := otel.GetTracerProvider()
	if _, err := Setup(context.Background(), enabledConfig(), "v0"); err == nil {
		t.Fatalf("expected error")
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("tracer provider changed on failed setup")
	}
}

func TestSetup_ResourceErrorPropagates(t *testing.T) {
	restoreGlobals(t)

	orig := newResource
	defer func() { newResource = orig }()
	newResource = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return nil, errors.New("resource build failed")
	}

	before := otel.GetTracerProvider()
	if _, err := Setup(context.Background(), enabledConfig(), "v0"); err == nil {
		t.Fatalf("expected error")
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("tracer provider changed on failed setup")
	}
}
