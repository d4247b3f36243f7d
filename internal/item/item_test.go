package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAttrs_NoColorOverride(t *testing.T) {
	// Given/When: the zero-value attribute set is requested
	a := DefaultAttrs()

	// Then: both colors are sentineled to "use terminal default"
	assert.Equal(t, -1, a.FG)
	assert.Equal(t, -1, a.BG)
	assert.False(t, a.Bold)
}

func TestItem_Len_CountsRunesNotBytes(t *testing.T) {
	// Given: a match string containing a multi-byte rune
	it := &Item{Match: "café"}

	// Then: Len reports rune count, not byte length
	assert.Equal(t, 4, it.Len())
}
