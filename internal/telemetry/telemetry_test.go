package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybestodds/mybestodds-go/internal/config"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitStdoutExporter(t *testing.T) {
	shutdown, err := Init(config.TelemetryConfig{
		Enabled:  true,
		Exporter: "stdout",
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracerGetters(t *testing.T) {
	httpTracer := GetHTTPTracer()
	assert.NotNil(t, httpTracer)

	forecastTracer := GetForecastTracer()
	assert.NotNil(t, forecastTracer)
}
