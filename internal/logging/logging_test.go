package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeInit(t *testing.T) {
	// Must not panic and must return a usable logger.
	l := Get(CategoryStore)
	require.NotNil(t, l)
	l.Info("no-op before Init")
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init("shouty", "json")
	assert.Error(t, err)
}

func TestGetReturnsSameLoggerPerCategory(t *testing.T) {
	require.NoError(t, Init("info", "console"))

	a := Get(CategoryAPI)
	b := Get(CategoryAPI)
	assert.Same(t, a, b)

	other := Get(CategoryBoot)
	assert.NotSame(t, a, other)
}
