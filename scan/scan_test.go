package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("src/app.tsx"))
	assert.True(t, Supported("a.cjs"))
	assert.False(t, Supported("style.css"))
	assert.False(t, Supported("package.json"))
}

func TestImports(t *testing.T) {
	src := []byte(`
import React from "react";
import { join } from "node:path";
import helper from "./helper";
import icon from "@scope/icons/dist/icon";
const lodash = require("lodash/fp");
const lazy = import("dayjs");
`)
	pkgs, err := Imports(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"@scope/icons", "dayjs", "lodash", "react"}, pkgs)
}

func TestImportsNoMatches(t *testing.T) {
	pkgs, err := Imports([]byte(`const x = 1;`))
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestNpmPackage(t *testing.T) {
	tests := []struct{ in, want string }{
		{"react", "react"},
		{"lodash/fp", "lodash"},
		{"@scope/pkg", "@scope/pkg"},
		{"@scope/pkg/sub/mod", "@scope/pkg"},
	}
	for _, tt := range tests {
		if got := NpmPackage(tt.in); got != tt.want {
			t.Errorf("NpmPackage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
