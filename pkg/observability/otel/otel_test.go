package otel

import (
	"context"
	"testing"
)

func TestInitializeAndShutdown(t *testing.T) {
	ctx := context.Background()

	if IsInitialized() {
		t.Fatal("IsInitialized() = true before Initialize")
	}

	err := Initialize(ctx, Config{ServiceName: "taskpool-test", Exporter: ExporterStdout})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !IsInitialized() {
		t.Error("IsInitialized() = false after Initialize")
	}

	// Double initialization is rejected
	if err := Initialize(ctx, Config{}); err == nil {
		t.Error("second Initialize() error = nil, want error")
	}

	_, span := Tracer().Start(ctx, "test-span")
	span.End()

	if err := Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if IsInitialized() {
		t.Error("IsInitialized() = true after Shutdown")
	}

	// Shutdown is idempotent
	if err := Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestInitialize_UnknownExporter(t *testing.T) {
	err := Initialize(context.Background(), Config{Exporter: "carrier-pigeon"})
	if err == nil {
		Shutdown(context.Background())
		t.Fatal("Initialize() with unknown exporter error = nil, want error")
	}
}
