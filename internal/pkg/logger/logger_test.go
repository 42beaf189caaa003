package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithActionAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := Into(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "ingest")
	ctx = AddFields(ctx, zap.String("url", "https://example.com"))
	ctxzap.Info(ctx, "loaded")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ingest", fields["action"])
	assert.Equal(t, "https://example.com", fields["url"])
}

func TestWithAction_NoLoggerInContext(t *testing.T) {
	assert.NotPanics(t, func() {
		ctxzap.Info(WithAction(context.Background(), "noop"), "dropped")
	})
}
