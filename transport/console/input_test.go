package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	t.Run("Parses two integers", func(t *testing.T) {
		x, y, err := parseCoordinates("  2   1 ")

		require.NoError(t, err)
		assert.Equal(t, 2, x)
		assert.Equal(t, 1, y)
	})

	t.Run("Keeps out of range numbers for the engine", func(t *testing.T) {
		x, y, err := parseCoordinates("3 -1")

		require.NoError(t, err)
		assert.Equal(t, 3, x)
		assert.Equal(t, -1, y)
	})

	t.Run("Error on wrong token count", func(t *testing.T) {
		for _, line := range []string{"", "1", "1 2 3"} {
			_, _, err := parseCoordinates(line)
			assert.ErrorIs(t, err, ErrWrongCoordinateCount, "line %q", line)
		}
	})

	t.Run("Error on non numeric input", func(t *testing.T) {
		for _, line := range []string{"a 1", "1 b", "1.5 0"} {
			_, _, err := parseCoordinates(line)
			assert.ErrorIs(t, err, ErrNotANumber, "line %q", line)
		}
	})
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit("quit"))
	assert.True(t, isQuit(" Q "))
	assert.True(t, isQuit("EXIT"))
	assert.False(t, isQuit("0 0"))
}
