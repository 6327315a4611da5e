package sourcemap

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zeebo/xxh3"
)

// schemeRelPrefix matches bundler virtual-scheme relative prefixes like
// "webpack://./" that tag an identifier as relative to the bundle root.
var schemeRelPrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://\./`)

// Normalize maps one raw source identifier to a safe, archive-root-relative
// path. It is total and deterministic: any input, including adversarial
// traversal paths and bundler URIs, yields a usable non-empty relative path.
//
// Parent traversal is not resolved against a base; every ".." segment is
// rendered as a literal "parent" segment so distinct depths stay distinct and
// the result can never escape the archive root.
func Normalize(raw string) string {
	p := strings.ReplaceAll(raw, "\\", "/")

	if m := schemeRelPrefix.FindString(p); m != "" {
		p = p[len(m):]
	} else {
		p = strings.TrimPrefix(p, "./")
	}

	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case "", ".":
			continue
		case "..":
			out = append(out, "parent")
		default:
			out = append(out, sanitizeSegment(seg))
		}
	}

	if len(out) == 0 {
		return fallbackName(raw)
	}
	return strings.Join(out, "/")
}

// sanitizeSegment replaces characters that common filesystems reject, plus
// raw control characters, with underscores.
func sanitizeSegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
			return '_'
		}
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, s)
}

// fallbackName names an identifier that normalized to nothing. The hash keeps
// distinct degenerate identifiers apart.
func fallbackName(raw string) string {
	return fmt.Sprintf("source_%016x", xxh3.HashString(raw))
}
