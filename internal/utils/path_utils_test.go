package utils

import "testing"

func TestExtractModuleName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"simple.nox", "simple"},
		{"path/to/module.nox", "module"},
		{"module", "module"},
		{"/absolute/path/to/mod.nox", "mod"},
		{".nox", ""},
		{"name.with.dots.nox", "name.with.dots"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := ExtractModuleName(tt.path)
			if got != tt.expected {
				t.Errorf("ExtractModuleName(%q) = %q; want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestHasSourceExt(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"program.nox", true},
		{"program.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := HasSourceExt(tt.path)
			if got != tt.expected {
				t.Errorf("HasSourceExt(%q) = %v; want %v", tt.path, got, tt.expected)
			}
		})
	}
}
