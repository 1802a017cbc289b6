package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentSingleBinding(t *testing.T) {
	t.Parallel()

	env := NewEnvironment()
	env.Set("b", Scalar(1))
	env.Set("a", Array{1, 2})
	env.Set("b", Bool(true))

	assert.Equal(t, 2, env.Len())
	assert.Equal(t, []string{"a", "b"}, env.Names())
	assert.Equal(t, 0, env.Count(KindScalar))
	assert.Equal(t, 1, env.Count(KindBool))

	env.Delete("a")
	_, ok := env.Get("a")
	assert.False(t, ok)
}

func TestValueText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Value
		want string
	}{
		{Scalar(0.5), "0.5"},
		{Scalar(3), "3"},
		{Array{1, 5, 3}, "[1, 5, 3]"},
		{Array{}, "[]"},
		{Bool(false), "false"},
		{String("hi"), `"hi"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
		assert.NotEmpty(t, tt.v.Kind().String())
	}
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
