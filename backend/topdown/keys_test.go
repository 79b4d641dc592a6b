package topdown

import (
	"testing"

	"github.com/plus3/flotilla/input"
	"github.com/stretchr/testify/assert"
)

func TestEveryKeyHasACode(t *testing.T) {
	for _, k := range input.Keys() {
		_, ok := keyCodes[k]
		assert.True(t, ok, k.String())
	}
}
