package enquo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderableModeRejectsOutOfRange(t *testing.T) {
	_, err := NewOrderableMode(0)
	assert.ErrorIs(t, err, ErrBadArgument)

	_, err = NewOrderableMode(256)
	assert.ErrorIs(t, err, ErrBadArgument)
}

func TestNewOrderableModeAccepts1To255(t *testing.T) {
	_, err := NewOrderableMode(1)
	require.NoError(t, err)
	_, err = NewOrderableMode(255)
	require.NoError(t, err)
}

func TestOrderableModeRequiresUnsafe(t *testing.T) {
	m, err := NewOrderableMode(5)
	require.NoError(t, err)
	assert.False(t, m.IsUnsafe())

	unsafeM := m.WithUnsafe()
	assert.True(t, unsafeM.IsUnsafe())
	assert.Equal(t, 5, unsafeM.OrderPrefixLen())
}
