package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformed = errors.New("malformed source map")
	ErrNoSources = errors.New("source map has no sources")
)

// Document is a parsed source map, reduced to the fields needed for source
// reconstruction. The mapping segments are never decoded.
type Document struct {
	Version        int       `json:"version"`
	File           string    `json:"file"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
}

// Parse decodes raw source map JSON. A map without a sources list is useless
// for extraction and is rejected.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(doc.Sources) == 0 {
		return nil, ErrNoSources
	}
	return doc, nil
}

// Content returns the embedded content for source index i. The second return
// is false when the entry is absent (missing sourcesContent array, short
// array, or a null entry). An embedded empty string is valid content.
func (d *Document) Content(i int) (string, bool) {
	if i < 0 || i >= len(d.SourcesContent) {
		return "", false
	}
	c := d.SourcesContent[i]
	if c == nil {
		return "", false
	}
	return *c, true
}

// PathOf returns the raw identifier for source index i with the map's
// sourceRoot joined in front of it.
func (d *Document) PathOf(i int) string {
	return joinRoot(d.SourceRoot, d.Sources[i])
}

func joinRoot(root, p string) string {
	if strings.TrimSpace(root) == "" {
		return p
	}
	return strings.TrimRight(root, "/\\") + "/" + strings.TrimLeft(p, "/\\")
}
