package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	cfg := Config{
		Enabled: false,
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	cfg := Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "backoffice-test",
		Insecure:          true,
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.True(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))

	// spans never reach a collector in tests; shutdown just flushes the batcher
	_ = tp.Shutdown(context.Background())
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	ratios := []float64{0.0, 0.5, 1.0}

	for _, ratio := range ratios {
		cfg := Config{
			Enabled:           true,
			CollectorEndpoint: "localhost:4317",
			SamplingRatio:     ratio,
			ServiceName:       "backoffice-test",
			Insecure:          true,
		}

		tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		require.NotNil(t, tp.provider)
		_ = tp.Shutdown(context.Background())
	}
}

func TestTracerProvider_GetConfig(t *testing.T) {
	cfg := Config{
		Enabled:       false,
		ServiceName:   "backoffice",
		SamplingRatio: 0.25,
	}

	tp, err := NewTracerProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	got := tp.GetConfig()
	assert.Equal(t, "backoffice", got.ServiceName)
	assert.Equal(t, 0.25, got.SamplingRatio)
}
