package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	tests := []struct {
		names []string
		in    string
		want  string
	}{
		{nil, "As Is", "As Is"},
		{[]string{"lower"}, "ID1234", "id1234"},
		{[]string{"upper"}, "jpy", "JPY"},
		{[]string{"title"}, "NEW YORK", "New York"},
		{[]string{"reverse"}, "98765", "56789"},
		{[]string{"collapse-spaces"}, " a   b  c ", "a b c"},
		{[]string{"trim", "upper"}, "  x ", "X"},
		{[]string{"reverse", "Upper"}, "ab", "BA"},
	}
	for _, tt := range tests {
		fn, err := Chain(tt.names...)
		require.NoError(t, err, "chain %v", tt.names)
		assert.Equal(t, tt.want, fn(tt.in), "chain %v", tt.names)
	}
}

func TestChain_Unknown(t *testing.T) {
	_, err := Chain("lower", "shout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"shout"`)
	assert.Contains(t, err.Error(), "collapse-spaces")
}

func TestTransformers_Sorted(t *testing.T) {
	assert.Equal(t, []string{"collapse-spaces", "lower", "reverse", "title", "trim", "upper"}, Transformers())
}
