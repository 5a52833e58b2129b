package cleanup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_Run(t *testing.T) {
	t.Run("RunsAllStepsInOrder", func(t *testing.T) {
		var order []string
		seq := New(nil)
		seq.Add("a", func() error { order = append(order, "a"); return nil })
		seq.Add("b", func() error { order = append(order, "b"); return nil })
		seq.Add("c", func() error { order = append(order, "c"); return nil })

		require.NoError(t, seq.Run())
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("FailureDoesNotSkipLaterSteps", func(t *testing.T) {
		var ran []string
		boom := errors.New("boom")
		seq := New(nil)
		seq.Add("first", func() error { ran = append(ran, "first"); return boom })
		seq.Add("second", func() error { panic("kaboom") })
		seq.Add("third", func() error { ran = append(ran, "third"); return nil })

		err := seq.Run()
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "second: panic: kaboom")
		assert.Equal(t, []string{"first", "third"}, ran)
	})

	t.Run("RunsOnlyOnce", func(t *testing.T) {
		calls := 0
		seq := New(nil).Add("count", func() error { calls++; return nil })
		seq.Add("nil", nil)

		require.NoError(t, seq.Run())
		require.NoError(t, seq.Run())
		assert.Equal(t, 1, calls)
	})
}
