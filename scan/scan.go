// Package scan infers npm package names from import specifiers in recovered
// JS/TS sources. Used when a map carries no manifest, so the summary can
// still approximate the dependency tree.
package scan

import (
	"fmt"
	"path"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_tsx "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var supportedExts = map[string]struct{}{
	".js":  {},
	".mjs": {},
	".cjs": {},
	".ts":  {},
	".mts": {},
	".cts": {},
	".jsx": {},
	".tsx": {},
}

// Supported reports whether a normalized path looks like a scannable source
// file. The TSX grammar handles the whole JS/TS family.
func Supported(p string) bool {
	_, ok := supportedExts[path.Ext(p)]
	return ok
}

// Imports parses source content and returns the npm package names of all
// non-relative import specifiers, deduplicated and sorted. The content is
// only read for import strings, never validated.
func Imports(content []byte) ([]string, error) {
	parser := tree_sitter.NewParser()
	parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_tsx.LanguageTSX()))

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed")
	}
	defer tree.Close()

	specs := make(map[string]struct{})
	collect(tree.RootNode(), content, specs)

	out := make([]string, 0, len(specs))
	for s := range specs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// collect walks the AST gathering module specifiers from import statements,
// require() and dynamic import().
func collect(node *tree_sitter.Node, source []byte, specs map[string]struct{}) {
	switch node.Kind() {
	case "import_statement":
		for i := uint(0); i < node.ChildCount(); i++ {
			addSpec(node.Child(i), source, specs)
		}
	case "call_expression":
		fn := node.Child(0)
		if fn != nil {
			callee := string(source[fn.StartByte():fn.EndByte()])
			if callee == "require" || callee == "import" {
				if args := node.ChildByFieldName("arguments"); args != nil {
					for i := uint(0); i < args.ChildCount(); i++ {
						addSpec(args.Child(i), source, specs)
					}
				}
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		collect(node.Child(i), source, specs)
	}
}

func addSpec(node *tree_sitter.Node, source []byte, specs map[string]struct{}) {
	if node == nil || node.Kind() != "string" {
		return
	}
	raw := strings.Trim(string(source[node.StartByte():node.EndByte()]), "\"'`")
	if raw == "" || relativeSpec(raw) || strings.HasPrefix(raw, "node:") {
		return
	}
	specs[NpmPackage(raw)] = struct{}{}
}

// NpmPackage reduces an import specifier to its npm package name:
// "@scope/pkg/sub" -> "@scope/pkg", "pkg/sub" -> "pkg".
func NpmPackage(spec string) string {
	if strings.HasPrefix(spec, "@") {
		parts := strings.SplitN(spec, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return spec
	}
	if i := strings.Index(spec, "/"); i >= 0 {
		return spec[:i]
	}
	return spec
}

func relativeSpec(spec string) bool {
	return strings.HasPrefix(spec, "./") ||
		strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, "~/") ||
		strings.HasPrefix(spec, "@/") ||
		strings.HasPrefix(spec, "/")
}
