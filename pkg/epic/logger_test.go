package epic_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

func TestZerologLoggerForwardsLevelAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := epic.NewZerologLogger(zerolog.New(&buf))
	logger.Warn("already inside a transaction", "key", "value")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"message":"already inside a transaction"`)
}

func TestZerologLoggerOddArgs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := epic.NewZerologLogger(zerolog.New(&buf))
	logger.Error("boom", "dangling")

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"message":"boom"`)
	assert.NotContains(t, out, "dangling")
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	var logger epic.Logger = epic.NopLogger{}
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
}
