package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) Bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func newRecordingProvider(exp *recordingExporter) *LoggerProvider {
	return &LoggerProvider{
		provider: sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp))),
		logger:   zap.NewNop(),
		config:   config.TelemetryConfig{Enabled: true, LogsEnabled: true, ServiceName: "ha-design-test"},
	}
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	for name, cfg := range map[string]config.TelemetryConfig{
		"telemetry off": {Enabled: false, LogsEnabled: true},
		"logs off":      {Enabled: true, LogsEnabled: false, CollectorEndpoint: "localhost:4317"},
	} {
		t.Run(name, func(t *testing.T) {
			lp, err := NewLoggerProvider(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)
			assert.False(t, lp.IsEnabled())

			assert.NoError(t, lp.ForceFlush(context.Background()))
			assert.NoError(t, lp.Shutdown(context.Background()))

			assert.False(t, lp.Core(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))

			base := zap.NewNop()
			assert.Same(t, base, lp.Bridge(base))
		})
	}
}

func TestLoggerProvider_Core_LevelFilter(t *testing.T) {
	exp := &recordingExporter{}
	lp := newRecordingProvider(exp)
	defer func() { _ = lp.Shutdown(context.Background()) }()

	core := lp.Core(zapcore.WarnLevel)
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	l := zap.New(core).With(zap.String("order_id", "o-1"))
	l.Info("dropped")
	l.Warn("delivery sync degraded")
	require.NoError(t, lp.ForceFlush(context.Background()))

	assert.Equal(t, []string{"delivery sync degraded"}, exp.Bodies())
}

func TestLoggerProvider_Bridge(t *testing.T) {
	exp := &recordingExporter{}
	lp := newRecordingProvider(exp)
	defer func() { _ = lp.Shutdown(context.Background()) }()

	obsCore, logs := observer.New(zapcore.InfoLevel)
	bridged := lp.Bridge(zap.New(obsCore))

	bridged.Debug("below base level")
	bridged.Info("order placed", zap.String("wilaya", "16"))
	require.NoError(t, lp.ForceFlush(context.Background()))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "order placed", logs.All()[0].Message)
	assert.Equal(t, []string{"order placed"}, exp.Bodies())
}
