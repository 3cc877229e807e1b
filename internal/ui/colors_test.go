package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisable(t *testing.T) {
	Disable()
	assert.Equal(t, "ok", Success("ok"))
	assert.Equal(t, "x", Bold("x"))
	assert.Equal(t, "", ColorCyan)
}
