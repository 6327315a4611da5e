package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsManifest(t *testing.T) {
	assert.True(t, IsManifest("package.json"))
	assert.True(t, IsManifest("lib/package.json"))
	assert.True(t, IsManifest("webpack://./node_modules/react/package.json"))
	assert.False(t, IsManifest("src/app.js"))
}

func TestParse(t *testing.T) {
	rep, err := Parse("lib/package.json", []byte(`{
		"name": "example",
		"version": "1.2.3",
		"dependencies": {
			"react": "^18.2.0",
			"left-pad": "latest"
		},
		"devDependencies": {
			"typescript": "~5.4.0"
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "lib/package.json", rep.Source)
	assert.Equal(t, "example", rep.Name)
	assert.Equal(t, "1.2.3", rep.Version)
	require.Len(t, rep.Dependencies, 3)

	// sorted by name
	assert.Equal(t, "left-pad", rep.Dependencies[0].Name)
	assert.False(t, rep.Dependencies[0].Valid, "npm tags are not semver ranges")
	assert.Equal(t, "react", rep.Dependencies[1].Name)
	assert.True(t, rep.Dependencies[1].Valid)
	assert.Equal(t, "typescript", rep.Dependencies[2].Name)
	assert.True(t, rep.Dependencies[2].Dev)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("package.json", []byte("not json"))
	assert.Error(t, err)
}
