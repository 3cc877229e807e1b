package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	out, err := ParseHeaders([]string{"accept-language: de-DE", "Referer:https://example.com/menu", "X-Campus: cpp"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Accept-Language": "de-DE",
		"Referer":         "https://example.com/menu",
		"X-Campus":        "cpp",
	}, out)
}

func TestParseHeaders_Invalid(t *testing.T) {
	for _, in := range []string{"BadHeader", ": value", "Bad Key: v"} {
		_, err := ParseHeaders([]string{in})
		assert.Error(t, err, in)
	}
}

func TestParseHeaders_Empty(t *testing.T) {
	out, err := ParseHeaders(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
