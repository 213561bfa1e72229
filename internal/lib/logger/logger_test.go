package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/linemk/wegx-store/internal/lib/logger"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	assert.True(t, logger.New(logger.EnvLocal, &buf).Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.New(logger.EnvDev, &buf).Enabled(ctx, slog.LevelDebug))
	assert.False(t, logger.New(logger.EnvProd, &buf).Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.New(logger.EnvProd, &buf).Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.New("staging", &buf).Enabled(ctx, slog.LevelDebug))
}

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.New(logger.EnvProd, &buf).Info("order placed", slog.String("orderNumber", "WEGX-00042"))
	assert.Contains(t, buf.String(), `"orderNumber":"WEGX-00042"`)
}
