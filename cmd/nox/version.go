package main

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"
)

// version is stamped at release time; buildTimestamp can be overridden via
// -ldflags "-X main.buildTimestamp=...", otherwise the banner reports the
// moment it was asked for.
const version = "0.1.0"

var buildTimestamp string

func versionBanner() string {
	ts := buildTimestamp
	if ts == "" {
		ts = strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	}
	return fmt.Sprintf("nox %s (built %s)", version, ts)
}
