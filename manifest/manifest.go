// Package manifest interprets package.json entries recovered from a source
// map. Manifests are significant for dependency-tree reconstruction: their
// declared dependencies describe what the bundled application was built from.
package manifest

import (
	"bytes"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	json "github.com/tsukinoko-kun/jsonedit"
)

type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Dependency is one declared dependency. Valid reports whether the declared
// range parses as a semver constraint (npm tags like "latest" or workspace
// protocols do not).
type Dependency struct {
	Name  string
	Range string
	Dev   bool
	Valid bool
}

// Report describes one recovered manifest.
type Report struct {
	Source       string
	Name         string
	Version      string
	Dependencies []Dependency
}

// IsManifest reports whether a raw source identifier names a package.json.
func IsManifest(raw string) bool {
	return strings.Contains(raw, "package.json")
}

// Parse reads a recovered package.json and returns its dependency report,
// sorted by dependency name for stable output.
func Parse(source string, content []byte) (Report, error) {
	m := &Manifest{}
	if _, err := json.Parse(bytes.NewReader(content), m); err != nil {
		return Report{}, err
	}

	rep := Report{
		Source:  source,
		Name:    m.Name,
		Version: m.Version,
	}
	rep.Dependencies = append(rep.Dependencies, deps(m.Dependencies, false)...)
	rep.Dependencies = append(rep.Dependencies, deps(m.DevDependencies, true)...)
	sort.Slice(rep.Dependencies, func(i, j int) bool {
		return rep.Dependencies[i].Name < rep.Dependencies[j].Name
	})
	return rep, nil
}

func deps(m map[string]string, dev bool) []Dependency {
	out := make([]Dependency, 0, len(m))
	for name, rng := range m {
		_, err := semver.NewConstraint(rng)
		out = append(out, Dependency{
			Name:  name,
			Range: rng,
			Dev:   dev,
			Valid: err == nil,
		})
	}
	return out
}
