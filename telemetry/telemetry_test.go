package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecorderEmitsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	defer otel.SetMeterProvider(prev)

	r := NewRecorder()
	r.Record(context.Background(), Observation{
		Kind:     "pairwise",
		Model:    "judge-model",
		Score:    7.5,
		Duration: 2 * time.Second,
	})
	r.Record(context.Background(), Observation{
		Kind:     "pairwise",
		Failed:   true,
		Duration: time.Second,
	})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["arbiter.evaluation.count"])
	assert.True(t, names["arbiter.evaluation.duration"])
	assert.True(t, names["arbiter.evaluation.score"])
}

func TestRecorderNilSafe(t *testing.T) {
	var r *Recorder
	ctx, span := r.StartSpan(context.Background(), "single", "m")
	assert.NotNil(t, ctx)
	r.EndSpan(span, errors.New("ignored"))
	r.Record(ctx, Observation{Kind: "single"})
}

func TestStartAndEndSpan(t *testing.T) {
	r := NewRecorder()
	ctx, span := r.StartSpan(context.Background(), "single", "judge-model")
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	r.EndSpan(span, nil)

	_, span = r.StartSpan(context.Background(), "single", "judge-model")
	r.EndSpan(span, errors.New("backend down"))
}
