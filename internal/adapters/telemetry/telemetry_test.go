package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/rewatch/internal/adapters/telemetry"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOTelTracer_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := telemetry.NewProvider(recorder)
	tracer := telemetry.NewOTelTracer(provider)

	_, span := tracer.Start(context.Background(), "build")
	span.SetAttribute("build.initial", true)
	span.SetAttribute("build.modules", 3)
	span.SetAttribute("build.cmd", []string{"go", "build"})
	span.SetAttribute("build.duration", 12*time.Millisecond)
	span.SetAttribute("build.other", struct{ N int }{N: 1})
	span.RecordError(errors.New("exit status 1"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	s := ended[0]

	assert.Equal(t, "build", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "exit status 1", s.Status().Description)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.True(t, attrs["build.initial"].AsBool())
	assert.Equal(t, int64(3), attrs["build.modules"].AsInt64())
	assert.Equal(t, []string{"go", "build"}, attrs["build.cmd"].AsStringSlice())
	assert.Equal(t, int64(12), attrs["build.duration"].AsInt64())
	assert.Equal(t, "{1}", attrs["build.other"].AsString())
}

func TestNewOTelTracer_GlobalProvider(t *testing.T) {
	tracer := telemetry.NewOTelTracer(nil)
	_, span := tracer.Start(context.Background(), "build")
	span.SetAttribute("build.initial", false)
	span.End()
}

func TestLogProcessor_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var lines []string
	logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		lines = append(lines, msg)
	}).Times(1)

	provider := telemetry.NewProvider(telemetry.NewLogProcessor(logger))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	_, span := telemetry.NewOTelTracer(provider).Start(context.Background(), "build")
	span.SetAttribute("build.initial", true)
	span.End()

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "trace: build ok in ")
	assert.Contains(t, lines[0], "build.initial=true")
}

func TestFormatSpan(t *testing.T) {
	assert.Equal(t,
		"trace: build error in 12ms build.modules=3",
		telemetry.FormatSpan("build", 12*time.Millisecond+300*time.Microsecond, true, []string{"build.modules=3"}),
	)
	assert.Equal(t, "trace: build ok in 0s", telemetry.FormatSpan("build", 0, false, nil))
}
