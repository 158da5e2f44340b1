// Package buildinfo reports version data injected at link time:
//
//	go build -ldflags "-X github.com/devberatzengin/LoclLock/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"cmp"
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// Version returns the injected version or "N/A".
func Version() string {
	return cmp.Or(buildVersion, "N/A")
}

// PrintBuildData writes version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version())
	fmt.Fprintf(w, "Build date: %s\n", cmp.Or(buildDate, "N/A"))
	fmt.Fprintf(w, "Build commit: %s\n", cmp.Or(buildCommit, "N/A"))
}
