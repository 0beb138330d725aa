package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDriver(t *testing.T) {
	d := DefaultDriver()
	require.NotNil(t, d)
	assert.Same(t, d, DefaultDriver(), "default driver must be shared")

	// After initialization, SetDefault is a no-op.
	other := NewDriver()
	SetDefault(other)
	assert.Same(t, d, DefaultDriver())

	SetDefault(nil)
	assert.Same(t, d, DefaultDriver())
}
