package observability

import (
	"context"
	"testing"
)

func TestSampleRatioClamps(t *testing.T) {
	cases := map[float64]float64{
		0:   0,
		0.1: 0.1,
		0.5: 0.5,
		-1:  0,
		3:   1,
	}
	for in, want := range cases {
		if got := sampleRatio(in); got != want {
			t.Fatalf("sampleRatio(%v): got=%v want=%v", in, got, want)
		}
	}
}

func TestExporterOptions(t *testing.T) {
	cfg := OtelConfig{Endpoint: "https://collector:4318/v1/traces"}
	if got := len(exporterOptions(cfg)); got != 1 {
		t.Fatalf("plain endpoint: got %d options", got)
	}
	cfg.Insecure = true
	cfg.Headers = map[string]string{"authorization": "Bearer x"}
	if got := len(exporterOptions(cfg)); got != 3 {
		t.Fatalf("insecure with headers: got %d options", got)
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatalf("expected a shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
