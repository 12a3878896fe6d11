package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsk-dev/power/internal/errors"
)

func TestSessionKeepsBindings(t *testing.T) {
	s := NewSession()

	r, err := s.Eval("let x = 40;")
	require.NoError(t, err)
	assert.False(t, r.HasValue)
	assert.Contains(t, r.IR, "define i32 @main()")

	r, err = s.Eval("x + 2;")
	require.NoError(t, err)
	assert.True(t, r.HasValue)
	assert.Equal(t, int32(42), r.Value)

	r, err = s.Eval("x = x * 2;")
	require.NoError(t, err)
	assert.Equal(t, int32(80), r.Value)

	r, err = s.Eval("x;")
	require.NoError(t, err)
	assert.Equal(t, int32(80), r.Value)
}

func TestSessionRejectsBadEntries(t *testing.T) {
	s := NewSession()

	_, err := s.Eval("let x = 1;")
	require.NoError(t, err)

	_, err = s.Eval("let x = 2;")
	assert.ErrorIs(t, err, errors.ErrDuplicateBinding)

	_, err = s.Eval("y;")
	assert.ErrorIs(t, err, errors.ErrUndefinedVariable)

	_, err = s.Eval("let = ;")
	assert.Error(t, err)

	r, err := s.Eval("x;")
	require.NoError(t, err)
	assert.Equal(t, int32(1), r.Value)
}

func TestSessionReturnIsNotKept(t *testing.T) {
	s := NewSession()

	r, err := s.Eval("return 7;")
	require.NoError(t, err)
	assert.True(t, r.HasValue)
	assert.Equal(t, int32(7), r.Value)

	// a kept return would make this unreachable
	r, err = s.Eval("let a = 3;")
	require.NoError(t, err)
	assert.False(t, r.HasValue)
}

func TestSessionOutputIsPerEntry(t *testing.T) {
	s := NewSession()

	r, err := s.Eval("putchar(72);")
	require.NoError(t, err)
	assert.Equal(t, "H", r.Output)

	r, err = s.Eval("putchar(105);")
	require.NoError(t, err)
	assert.Equal(t, "i", r.Output)
}

func TestSessionStepLimit(t *testing.T) {
	s := NewSession()

	_, err := s.Eval("while (true) {}")
	assert.Error(t, err)

	r, err := s.Eval("1 + 1;")
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.Value)
}

func TestSessionReset(t *testing.T) {
	s := NewSession()

	_, err := s.Eval("let x = 1;")
	require.NoError(t, err)
	assert.NotEmpty(t, s.LastIR())

	s.Reset()
	assert.Empty(t, s.LastIR())

	_, err = s.Eval("let x = 2;")
	assert.NoError(t, err)
}

func TestIsIncomplete(t *testing.T) {
	assert.False(t, IsIncomplete("let x = 1;"))
	assert.True(t, IsIncomplete("while (x < 3) {"))
	assert.True(t, IsIncomplete("max(1,"))
	assert.False(t, IsIncomplete("if (x) { x = 1; }"))
	assert.False(t, IsIncomplete("// {"))
}
