package runctx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndFrom(t *testing.T) {
	ctx := New(context.Background(), "starbucks")
	r := From(ctx)
	assert.Len(t, r.ID, 16)
	assert.Equal(t, "starbucks", r.Site)

	other := From(New(context.Background(), "starbucks"))
	assert.NotEqual(t, r.ID, other.ID)

	assert.Equal(t, "unknown", From(context.Background()).ID)
}

func TestWrap(t *testing.T) {
	ctx := New(context.Background(), "nutrislice")
	base := errors.New("boom")

	err := Wrap(ctx, base)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), From(ctx).ID)
	assert.NoError(t, Wrap(ctx, nil))
}
