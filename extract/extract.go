// Package extract turns a parsed source map into an in-memory archive tree:
// per-entry content resolution, path normalization, collision-safe tree
// insertion, and summary bookkeeping.
package extract

import (
	"context"
	"net/url"
	"sort"
	"sync"

	"github.com/tsukinoko-kun/unmap/fetch"
	"github.com/tsukinoko-kun/unmap/ignore"
	"github.com/tsukinoko-kun/unmap/manifest"
	"github.com/tsukinoko-kun/unmap/scan"
	"github.com/tsukinoko-kun/unmap/sourcemap"
)

type Options struct {
	// Fetcher retrieves sources without embedded content. Nil means every
	// such entry becomes a placeholder.
	Fetcher fetch.Fetcher
	// Base is the map's own location, used to resolve relative identifiers
	// into fetch targets. Nil for local maps (the fetcher then resolves
	// identifiers itself).
	Base *url.URL
	// Concurrency bounds parallel fetches. Zero or negative means 4.
	Concurrency int
	// Exclude drops matching normalized paths from the archive.
	Exclude *ignore.Matcher
	// Progress, if set, is called once per entry after its tree insertion.
	// It is reporting only, never load-bearing.
	Progress func(done, total int, rec ResolvedSource)
	// InferImports scans resolved JS/TS content for npm import specifiers
	// when the map carries no manifest.
	InferImports bool
	// Tree receives the entries; nil creates a fresh one.
	Tree *Tree
}

// Failure is one source whose content could not be resolved.
type Failure struct {
	Source string
	Reason string
}

// Summary is the report produced alongside the archive tree.
type Summary struct {
	TotalSources  int
	Embedded      int
	Fetched       int
	Placeholders  int
	ManifestFiles []string
	FailedSources []Failure
	Excluded      []string
	Manifests     []manifest.Report
	// InferredPackages lists npm packages found by scanning imports, only
	// populated when the map has no manifest entries.
	InferredPackages []string
}

// Run resolves every source of doc and builds the archive tree.
//
// Entries resolve concurrently but are inserted strictly in sources order so
// collision suffixes are deterministic. Per-entry failures become placeholder
// entries and summary records; only map-level problems (here: context
// cancellation) are errors.
func Run(ctx context.Context, doc *sourcemap.Document, opts Options) (*Tree, *Summary, error) {
	n := len(doc.Sources)
	sum := &Summary{TotalSources: n}

	conc := opts.Concurrency
	if conc <= 0 {
		conc = 4
	}

	// fan out resolution; completions land at their own index
	results := make([]ResolvedSource, n)
	sem := make(chan struct{}, conc)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			raw := doc.Sources[i]
			path := sourcemap.Normalize(doc.PathOf(i))
			var embedded *string
			if c, ok := doc.Content(i); ok {
				embedded = &c
			}
			results[i] = resolve(ctx, raw, path, embedded, opts.Base, opts.Fetcher)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tree := opts.Tree
	if tree == nil {
		tree = NewTree()
	}

	// single writer applies insertions in sources order
	done := 0
	for i, rec := range results {
		raw := doc.Sources[i]
		if manifest.IsManifest(raw) {
			sum.ManifestFiles = append(sum.ManifestFiles, raw)
		}

		switch rec.Origin {
		case OriginEmbedded:
			sum.Embedded++
		case OriginFetched:
			sum.Fetched++
		case OriginPlaceholder:
			sum.Placeholders++
			sum.FailedSources = append(sum.FailedSources, Failure{
				Source: raw,
				Reason: rec.Err.Error(),
			})
		}

		if opts.Exclude.Match(rec.Path) {
			sum.Excluded = append(sum.Excluded, raw)
			continue
		}

		final := tree.Insert(rec.Path, rec)
		rec.Path = final
		done++
		if opts.Progress != nil {
			opts.Progress(done, n, rec)
		}

		if manifest.IsManifest(raw) && rec.Origin != OriginPlaceholder {
			if rep, err := manifest.Parse(raw, rec.Content); err == nil {
				sum.Manifests = append(sum.Manifests, rep)
			}
		}
	}

	if opts.InferImports && len(sum.ManifestFiles) == 0 {
		sum.InferredPackages = inferPackages(results)
	}

	return tree, sum, nil
}

// inferPackages scans resolved JS/TS content for non-relative import
// specifiers. Best effort: unparseable files contribute nothing.
func inferPackages(results []ResolvedSource) []string {
	seen := make(map[string]struct{})
	for _, rec := range results {
		if rec.Origin == OriginPlaceholder || !scan.Supported(rec.Path) {
			continue
		}
		pkgs, err := scan.Imports(rec.Content)
		if err != nil {
			continue
		}
		for _, p := range pkgs {
			seen[p] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
