package xstrings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrimCompact(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitTrimCompact(",", "a, b, ,c,"))
	assert.Equal(t, []string{"a", "b"}, SplitTrimCompact(",", "", "a", " b "))
	assert.Empty(t, SplitTrimCompact(","))
}
