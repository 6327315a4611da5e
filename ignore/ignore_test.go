package ignore

import "testing"

func TestMatcher(t *testing.T) {
	m := New([]string{"node_modules/", "*.min.js", "# comment", ""})

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/react/index.js", true},
		{"src/app.min.js", true},
		{"src/app.js", false},
		{"package.json", false},
	}
	for _, tt := range tests {
		if got := m.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMatcherEmpty(t *testing.T) {
	if New(nil).Match("anything.js") {
		t.Error("empty matcher must match nothing")
	}
	var m *Matcher
	if m.Match("anything.js") {
		t.Error("nil matcher must match nothing")
	}
}
