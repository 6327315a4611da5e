package sourcemap

import (
	"encoding/base64"
	"regexp"
	"strings"
)

var (
	reInlineMap  = regexp.MustCompile(`(?m)//[#@]\s*sourceMappingURL=data:application/json(?:;charset=[^;]+)?;base64,([A-Za-z0-9+/=]+)`)
	reMapComment = regexp.MustCompile(`(?m)//[#@]\s*sourceMappingURL\s*=\s*(.+)$`)
)

// InlineMap extracts a source map embedded in a script as a base64 data URI.
func InlineMap(js []byte) ([]byte, bool) {
	m := reInlineMap.FindSubmatch(js)
	if len(m) < 2 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(string(m[1]))
	if err != nil {
		return nil, false
	}
	return data, true
}

// MapReference extracts the sourceMappingURL comment reference from a script.
// The reference can be relative; the caller resolves it against the script's
// location.
func MapReference(js []byte) (string, bool) {
	m := reMapComment.FindSubmatch(js)
	if len(m) < 2 {
		return "", false
	}
	ref := strings.TrimSpace(string(m[1]))
	ref = strings.Trim(ref, "\"'")
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return "", false
	}
	return ref, true
}
