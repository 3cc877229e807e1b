package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineError_IsMatchesByCode(t *testing.T) {
	err := NewEngineError(ErrCodeContentTimeout, "nutrition panel never rendered", nil).
		WithDetail("item", "menu-item-oatmeal")
	wrapped := fmt.Errorf("extract item: %w", err)

	assert.True(t, errors.Is(wrapped, ErrContentTimeout))
	assert.False(t, errors.Is(wrapped, ErrGateNotFound))
	assert.Equal(t, ErrCodeContentTimeout, CodeOf(wrapped))
	assert.Equal(t, "menu-item-oatmeal", err.Details["item"])
}

func TestEngineError_Error(t *testing.T) {
	under := errors.New("boom")
	err := NewEngineError(ErrCodeExtraction, "item failed", under)
	assert.Equal(t, "EXTRACTION_ERROR: item failed: boom", err.Error())
	assert.ErrorIs(t, err, under)
	assert.Equal(t, "GATE_NOT_FOUND", ErrGateNotFound.Error())
	assert.Equal(t, ErrorCode(""), CodeOf(under))
}
