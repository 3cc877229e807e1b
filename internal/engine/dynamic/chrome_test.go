package dynamic

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindChrome_Explicit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "chrome")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	assert.Equal(t, bin, FindChrome(bin))
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o644))

	assert.False(t, isExecutable(plain))
	assert.False(t, isExecutable(dir))
	assert.False(t, isExecutable(filepath.Join(dir, "missing")))
}

func TestInstallCandidates(t *testing.T) {
	linux := installCandidates("linux", "/home/u")
	assert.Contains(t, linux, "/usr/bin/chromium")
	assert.Contains(t, linux, "/home/u/.local/share/flatpak/exports/bin/org.chromium.Chromium")
	assert.Nil(t, installCandidates("plan9", ""))
}

func TestAllocatorOptions_Count(t *testing.T) {
	base := len(allocatorOptions(Options{Headless: true, ChromePath: "/nonexistent"}))
	withProxy := len(allocatorOptions(Options{Headless: true, ChromePath: "/nonexistent", Proxy: "http://127.0.0.1:8080"}))
	assert.Equal(t, base+1, withProxy)
}

func TestVersion_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", Version(""))
}

func TestToElement(t *testing.T) {
	el := toElement(&cdp.Node{NodeID: 42, Attributes: []string{"data-testid", "menu-item-Fries", "class", "menu-item-wrapper"}})
	assert.Equal(t, "42", el.ID)
	v, ok := el.Attr("data-testid")
	assert.True(t, ok)
	assert.Equal(t, "menu-item-Fries", v)
}

func TestQueryOptions(t *testing.T) {
	sel, opts := queryOptions(engine.XPath("//button"))
	assert.Equal(t, "//button", sel)
	assert.Len(t, opts, 1)

	sel, _ = queryOptions(engine.CSS("a.item"))
	assert.Equal(t, "a.item", sel)
}

func TestExtraHeaders(t *testing.T) {
	h := extraHeaders(Options{})
	assert.Equal(t, defaultAcceptLanguage, h["Accept-Language"])

	h = extraHeaders(Options{
		AcceptLanguage: "fr-FR",
		Headers:        map[string]string{"Accept-Language": "de-DE", "Referer": "https://example.com"},
	})
	assert.Equal(t, "de-DE", h["Accept-Language"])
	assert.Equal(t, "https://example.com", h["Referer"])
}
