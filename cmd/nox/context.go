package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/nox-lang/nox/internal/pipeline"
	"github.com/nox-lang/nox/internal/utils"
)

// largeFileThreshold is the size above which loadContext reports a
// human-readable byte count before compiling, a courtesy for large inputs.
const largeFileThreshold = 64 * 1024

// loadContext reads path and wraps it in a fresh pipeline.Context. File
// discovery and opening the input stream are themselves out of the core
// pipeline's scope; this is the CLI shelling that contract.
func loadContext(path string) (*pipeline.Context, error) {
	if !utils.HasSourceExt(path) {
		fmt.Fprintf(os.Stderr, "warning: %s does not have a recognized source extension\n", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open source file: %w", err)
	}
	if len(data) > largeFileThreshold {
		fmt.Fprintf(os.Stderr, "compiling %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	}

	return pipeline.NewContext(string(data), path), nil
}
