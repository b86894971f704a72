package observability

import (
	"context"
	"testing"

	"github.com/annel0/fuelcell/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTelemetry_Disabled(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()), "Пустой shutdown не должен возвращать ошибку")
}

func TestTracer_Span(t *testing.T) {
	_, span := Tracer().Start(context.Background(), "probe")
	defer span.End()

	assert.NotNil(t, span, "Глобальный провайдер по умолчанию выдаёт no-op спаны")
}
