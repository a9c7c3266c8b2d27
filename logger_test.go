package allpaths_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autom8ter/allpaths"
)

func TestLogger(t *testing.T) {
	ctx := allpaths.NewMetadata(map[string]any{allpaths.PlanIDKey: "test"}).ToContext(context.Background())
	t.Run("debug", func(t *testing.T) {
		logger, err := allpaths.NewLogger("debug", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Debug(ctx, "debug logger", nil)
	})
	t.Run("info", func(t *testing.T) {
		logger, err := allpaths.NewLogger("info", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Info(ctx, "info logger", nil)
	})
	t.Run("warn", func(t *testing.T) {
		logger, err := allpaths.NewLogger("warn", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Warn(ctx, "warn logger", map[string]any{"index": "$**"})
	})
	t.Run("error", func(t *testing.T) {
		logger, err := allpaths.NewLogger("error", map[string]any{})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
		logger.Error(ctx, "error logger", fmt.Errorf("this is an error"), nil)
	})
	t.Run("nop", func(t *testing.T) {
		logger := allpaths.NewNopLogger()
		assert.NotNil(t, logger)
		logger.Info(ctx, "discarded", nil)
	})
}
