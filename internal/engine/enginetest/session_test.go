package enginetest

import (
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_NavigateAndWait(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{
		"https://menu.test/": `<html><body><button id="go" disabled>Go</button><p hidden class="note">n</p></body></html>`,
	})

	require.NoError(t, s.Navigate(ctx, "https://menu.test/"))
	assert.Equal(t, "https://menu.test/", s.URL())

	ok, err := s.WaitUntil(ctx, engine.CSS("#go"), engine.Present, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.WaitUntil(ctx, engine.CSS("#go"), engine.Clickable, 0)
	assert.False(t, ok)

	ok, _ = s.WaitUntil(ctx, engine.CSS(".note"), engine.Visible, 0)
	assert.False(t, ok)

	ok, _ = s.WaitUntil(ctx, engine.XPath("//button"), engine.Present, 0)
	assert.False(t, ok)

	err = s.Navigate(ctx, "https://menu.test/missing")
	assert.ErrorIs(t, err, engine.ErrNavigation)
	assert.Equal(t, []string{"https://menu.test/", "https://menu.test/missing"}, s.Visited())
}

func TestSession_ClickSwapsDocumentAndInvalidatesHandles(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{"u": `<div><a class="item" data-id="1">one</a><a class="item" data-id="2">two</a></div>`})
	s.OnClick = func(s *Session, el *goquery.Selection) error {
		id, _ := el.Attr("data-id")
		return s.SetHTML(`<div role="dialog">item ` + id + `</div>`)
	}
	require.NoError(t, s.Navigate(ctx, "u"))

	items, err := s.FindAll(ctx, engine.CSS("a.item"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	v, _ := items[1].Attr("data-id")
	assert.Equal(t, "2", v)

	require.NoError(t, s.Click(ctx, items[1]))
	html, err := s.CurrentDocument(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "item 2")

	assert.Error(t, s.Click(ctx, items[0]))
	assert.Len(t, s.Clicks(), 1)
}

func TestSession_KeysAndClose(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SendKey(context.Background(), engine.KeyEscape))
	assert.Equal(t, []string{engine.KeyEscape}, s.Keys())

	s.Close()
	s.Close()
	assert.Equal(t, 2, s.Closes())

	o := &Opener{Session: s}
	got, err := o.Open(context.Background())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, o.Opens())
}
