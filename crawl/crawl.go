// Package crawl discovers source maps starting from a web page: it collects
// external <script src> references, locates each script's map (inline data
// URI, sourceMappingURL comment, or .map sibling probe) and extracts every
// map found into one shared archive tree, entries prefixed by host and
// script directory so multiple bundles coexist.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/tsukinoko-kun/unmap/extract"
	"github.com/tsukinoko-kun/unmap/fetch"
	"github.com/tsukinoko-kun/unmap/ignore"
	"github.com/tsukinoko-kun/unmap/sourcemap"
)

var ErrNoMap = errors.New("no source map found")

type Options struct {
	Client *fetch.Client
	// Concurrency bounds parallel script processing. Zero or negative
	// means 4.
	Concurrency int
	// SaveMap includes the raw map JSON itself in the archive.
	SaveMap      bool
	Exclude      *ignore.Matcher
	InferImports bool
	// Progress, if set, receives one line per processed script.
	Progress func(msg string)
}

// ScriptResult reports the outcome for one discovered script.
type ScriptResult struct {
	Script  string
	MapFrom string // "inline", the map URL, or empty on failure
	Summary *extract.Summary
	Err     error
}

// Run crawls pageURL and returns the combined archive tree plus one result
// per discovered script. Scripts without a reachable map are reported, not
// fatal; only an unreachable or unparseable page aborts the crawl.
func Run(ctx context.Context, pageURL string, opts Options) (*extract.Tree, []ScriptResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid page URL: %w", err)
	}

	body, err := opts.Client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch page: %w", err)
	}

	scripts := Scripts(body, base)

	conc := opts.Concurrency
	if conc <= 0 {
		conc = 4
	}

	// per-script trees land at their own index, then merge in discovery
	// order so collision suffixes stay reproducible
	trees := make([]*extract.Tree, len(scripts))
	results := make([]ScriptResult, len(scripts))
	sem := make(chan struct{}, conc)
	var wg sync.WaitGroup
	for i, script := range scripts {
		wg.Add(1)
		go func(i int, script *url.URL) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			trees[i], results[i] = processScript(ctx, base, script, opts)
			if opts.Progress != nil {
				r := results[i]
				if r.Err != nil {
					opts.Progress(fmt.Sprintf("%s: %v", r.Script, r.Err))
				} else {
					opts.Progress(fmt.Sprintf("%s: %d sources via %s", r.Script, r.Summary.TotalSources, r.MapFrom))
				}
			}
		}(i, script)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	combined := extract.NewTree()
	for i, t := range trees {
		if t == nil {
			continue
		}
		combined.Merge(hostPath(scripts[i]), t)
	}

	return combined, results, nil
}

func processScript(ctx context.Context, page, script *url.URL, opts Options) (*extract.Tree, ScriptResult) {
	res := ScriptResult{Script: script.String()}

	js, err := opts.Client.Fetch(ctx, script.String())
	if err != nil {
		res.Err = fmt.Errorf("fetch script: %w", err)
		return nil, res
	}

	mapData, mapURL, err := locateMap(ctx, script, js, opts.Client)
	if err != nil {
		res.Err = err
		return nil, res
	}
	if mapURL == nil {
		res.MapFrom = "inline"
	} else {
		res.MapFrom = mapURL.String()
	}

	doc, err := sourcemap.Parse(mapData)
	if err != nil {
		res.Err = err
		return nil, res
	}

	mapBase := mapURL
	if mapBase == nil {
		// inline maps resolve relative sources against the script itself
		mapBase = script
	}

	tree := extract.NewTree()
	if opts.SaveMap {
		tree.InsertRaw(mapFileName(mapURL, script), mapData)
	}
	tree, sum, err := extract.Run(ctx, doc, extract.Options{
		Fetcher:      opts.Client,
		Base:         mapBase,
		Concurrency:  opts.Concurrency,
		Exclude:      opts.Exclude,
		InferImports: opts.InferImports,
		Tree:         tree,
	})
	if err != nil {
		res.Err = err
		return nil, res
	}
	res.Summary = sum
	return tree, res
}

// locateMap tries the three discovery strategies in order. A nil returned
// URL means the map was inline.
func locateMap(ctx context.Context, script *url.URL, js []byte, client *fetch.Client) ([]byte, *url.URL, error) {
	if data, ok := sourcemap.InlineMap(js); ok {
		return data, nil, nil
	}

	if ref, ok := sourcemap.MapReference(js); ok {
		mapURL, err := script.Parse(ref)
		if err == nil {
			data, err := client.Fetch(ctx, mapURL.String())
			if err == nil {
				return data, mapURL, nil
			}
		}
	}

	probe := script.ResolveReference(&url.URL{Path: script.Path + ".map"})
	if data, err := client.Fetch(ctx, probe.String()); err == nil {
		return data, probe, nil
	}

	return nil, nil, ErrNoMap
}

// Scripts parses an HTML page and returns the absolute URLs of all external
// scripts, in document order, deduplicated.
func Scripts(page []byte, base *url.URL) []*url.URL {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil
	}

	var out []*url.URL
	seen := make(map[string]struct{})
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "script") {
			for _, a := range n.Attr {
				if strings.EqualFold(a.Key, "src") && strings.TrimSpace(a.Val) != "" {
					if u, err := url.Parse(strings.TrimSpace(a.Val)); err == nil {
						abs := base.ResolveReference(u)
						if _, dup := seen[abs.String()]; !dup {
							seen[abs.String()] = struct{}{}
							out = append(out, abs)
						}
					}
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// hostPath is the archive prefix for one script's sources: host plus the
// script's directory.
func hostPath(script *url.URL) string {
	host := script.Hostname()
	dir := path.Dir(script.Path)
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return host
	}
	return host + "/" + dir
}

func mapFileName(mapURL, script *url.URL) string {
	if mapURL != nil {
		if name := path.Base(mapURL.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}
	if name := path.Base(script.Path); name != "" && name != "." && name != "/" {
		return name + ".map"
	}
	return "sourcemap.json"
}
