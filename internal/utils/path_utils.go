package utils

import (
	"path/filepath"
	"strings"

	"github.com/nox-lang/nox/internal/config"
)

// ExtractModuleName derives a module name from a source file path: the base
// filename with the recognized source extension trimmed off. No package in
// this module calls it; the IR module's source_filename is the file path as
// given on the command line.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, config.SourceFileExt)
}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
