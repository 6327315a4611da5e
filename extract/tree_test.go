package extract

import "testing"

func TestTreeCollisionSuffix(t *testing.T) {
	tree := NewTree()

	tests := []struct {
		insert string
		want   string
	}{
		{"a.js", "a.js"},
		{"a.js", "a_1.js"},
		{"a.js", "a_2.js"},
		{"src/b.min.js", "src/b.min.js"},
		{"src/b.min.js", "src/b.min_1.js"},
		{"noext", "noext"},
		{"noext", "noext_1"},
	}
	for _, tt := range tests {
		got := tree.Insert(tt.insert, ResolvedSource{Raw: tt.insert})
		if got != tt.want {
			t.Errorf("Insert(%q) = %q, want %q", tt.insert, got, tt.want)
		}
	}
	if tree.Len() != len(tests) {
		t.Errorf("Len() = %d, want %d", tree.Len(), len(tests))
	}
}

func TestTreeSuffixSkipsTakenNames(t *testing.T) {
	tree := NewTree()
	// a_1.js is already taken by a literal source of that name
	tree.Insert("a_1.js", ResolvedSource{})
	tree.Insert("a.js", ResolvedSource{})
	got := tree.Insert("a.js", ResolvedSource{})
	if got != "a_2.js" {
		t.Errorf("suffixed path = %q, want a_2.js", got)
	}
}

func TestTreeEntriesOrder(t *testing.T) {
	tree := NewTree()
	tree.Insert("b.js", ResolvedSource{Content: []byte("b")})
	tree.Insert("a.js", ResolvedSource{Content: []byte("a")})

	entries := tree.Entries()
	if len(entries) != 2 || entries[0].Path != "b.js" || entries[1].Path != "a.js" {
		t.Errorf("entries not in insertion order: %+v", entries)
	}
}

func TestTreeMerge(t *testing.T) {
	inner := NewTree()
	inner.Insert("a.js", ResolvedSource{Content: []byte("x")})

	outer := NewTree()
	outer.Insert("example.com/js/a.js", ResolvedSource{Content: []byte("y")})
	outer.Merge("example.com/js", inner)

	entries := outer.Entries()
	if len(entries) != 2 {
		t.Fatalf("Len() = %d, want 2", len(entries))
	}
	if entries[1].Path != "example.com/js/a_1.js" {
		t.Errorf("merged path = %q, want example.com/js/a_1.js", entries[1].Path)
	}
}
