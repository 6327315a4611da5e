package extract

import (
	"fmt"
	"path"
	"strings"
)

// Entry is one archived file.
type Entry struct {
	// Path is the final archive path, unique within the tree.
	Path string
	// Raw is the identifier the entry came from.
	Raw     string
	Content []byte
	Origin  Origin
}

// Tree is the in-memory archive being built: normalized path to content,
// insertion-ordered. Bundlers can legitimately produce two identifiers that
// normalize to the same path, so inserting an already-taken path assigns a
// numeric suffix instead of overwriting. Suffixes follow insertion order,
// which the orchestrator keeps equal to sources order, so output is
// reproducible for a given map.
type Tree struct {
	taken   map[string]struct{}
	entries []Entry
}

func NewTree() *Tree {
	return &Tree{taken: make(map[string]struct{})}
}

// Insert adds a resolved source under the given normalized path, suffixing on
// collision. It returns the final path.
func (t *Tree) Insert(p string, rec ResolvedSource) string {
	final := p
	for n := 1; ; n++ {
		if _, exists := t.taken[final]; !exists {
			break
		}
		final = suffixPath(p, n)
	}
	t.taken[final] = struct{}{}
	t.entries = append(t.entries, Entry{
		Path:    final,
		Raw:     rec.Raw,
		Content: rec.Content,
		Origin:  rec.Origin,
	})
	return final
}

// InsertRaw adds arbitrary content (e.g. the map document itself) under a
// path, with the same collision handling.
func (t *Tree) InsertRaw(p string, content []byte) string {
	return t.Insert(p, ResolvedSource{Content: content, Origin: OriginFetched})
}

// Merge re-inserts every entry of other under prefix, preserving other's
// entry order.
func (t *Tree) Merge(prefix string, other *Tree) {
	for _, e := range other.entries {
		p := e.Path
		if prefix != "" {
			p = prefix + "/" + p
		}
		t.Insert(p, ResolvedSource{Raw: e.Raw, Content: e.Content, Origin: e.Origin})
	}
}

// Entries returns the archived files in insertion order.
func (t *Tree) Entries() []Entry {
	return t.entries
}

func (t *Tree) Len() int {
	return len(t.entries)
}

// suffixPath inserts _n before the file extension: a.js, a_1.js, a_2.js.
func suffixPath(p string, n int) string {
	dir, base := path.Split(p)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s%s_%d%s", dir, name, n, ext)
}
