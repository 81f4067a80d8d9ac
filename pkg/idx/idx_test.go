package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("generates valid parseable IDs", func(t *testing.T) {
		id := New()
		require.False(t, id.IsZero())

		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("successive IDs are ordered", func(t *testing.T) {
		a := New()
		b := New()
		require.Less(t, a.String(), b.String())
	})

	t.Run("embeds a recent timestamp", func(t *testing.T) {
		id := New()
		require.WithinDuration(t, time.Now().UTC(), id.Time(), 5*time.Second)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty and malformed input", func(t *testing.T) {
		for _, s := range []string{"", "   ", "not-a-ulid", "0123"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid, "input %q", s)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		id := New()
		parsed, err := Parse("  " + id.String() + " ")
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})
}
