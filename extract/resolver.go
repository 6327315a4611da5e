package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tsukinoko-kun/unmap/fetch"
)

// Origin records where a resolved source's content came from.
type Origin uint8

const (
	OriginEmbedded Origin = iota
	OriginFetched
	OriginPlaceholder
)

func (o Origin) String() string {
	switch o {
	case OriginEmbedded:
		return "embedded"
	case OriginFetched:
		return "fetched"
	case OriginPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// ResolvedSource is one source entry after content resolution. Immutable once
// created; the tree owns it until archival.
type ResolvedSource struct {
	Raw     string
	Path    string
	Content []byte
	Origin  Origin
	Err     error
}

var errNoFetcher = errors.New("no content embedded and no fetcher configured")

// resolve produces content for one source entry. Embedded content (including
// an empty string) wins; otherwise the identifier is resolved against the map
// base and fetched. Any fetch failure degrades to a placeholder, never to an
// error: one bad entry must not affect its siblings or abort the run.
func resolve(ctx context.Context, raw, path string, embedded *string, base *url.URL, f fetch.Fetcher) ResolvedSource {
	rec := ResolvedSource{Raw: raw, Path: path}

	if embedded != nil {
		rec.Content = []byte(*embedded)
		rec.Origin = OriginEmbedded
		return rec
	}

	target, err := resolveTarget(raw, base)
	if err == nil {
		if f == nil {
			err = errNoFetcher
		} else {
			var body []byte
			body, err = f.Fetch(ctx, target)
			if err == nil {
				rec.Content = body
				rec.Origin = OriginFetched
				return rec
			}
		}
	}

	rec.Origin = OriginPlaceholder
	rec.Err = err
	rec.Content = placeholderContent(raw, err)
	return rec
}

// resolveTarget turns a raw identifier into the location handed to the
// fetcher. With a base URL the identifier is resolved as a reference against
// it; without one (local map) the identifier is passed through and the
// fetcher interprets it relative to the map's directory.
func resolveTarget(raw string, base *url.URL) (string, error) {
	if base == nil {
		return raw, nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("unresolvable identifier: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// placeholderContent keeps one archive entry per source even when content is
// unreachable, recording what was looked for and why it failed.
func placeholderContent(raw string, err error) []byte {
	return fmt.Appendf(nil,
		"// unmap: source content could not be resolved\n// source: %s\n// reason: %v\n",
		raw, err)
}
