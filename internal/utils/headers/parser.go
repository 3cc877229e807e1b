// Package headers parses "Key: Value" request header arguments.
package headers

import (
	"fmt"
	"net/textproto"
	"strings"
)

// ParseHeaders converts header strings ("Key: Value") into a map keyed by the
// canonical header name. Later entries win.
func ParseHeaders(h []string) (map[string]string, error) {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("invalid header %q: want \"Key: Value\"", hdr)
		}
		m[textproto.CanonicalMIMEHeaderKey(key)] = strings.TrimSpace(value)
	}
	return m, nil
}
