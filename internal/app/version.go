// Package app wires configuration, calibration and the engine into the
// deepzoom command: it dispatches to the CLI modes, the HTTP server,
// calibration or completion output.
package app

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Build-time variables set via -ldflags:
//
//	go build -ldflags="-X github.com/agbru/deepzoom/internal/app.Version=v1.2.3 -X github.com/agbru/deepzoom/internal/app.Commit=abc123"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionFlags = []string{"--version", "-version", "-V"}

// HasVersionFlag reports whether args request the version, in any position.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool { return slices.Contains(versionFlags, a) })
}

// PrintVersion writes the version block shown by -version.
func PrintVersion(out io.Writer) {
	v := GetVersionInfo()
	fmt.Fprintf(out, "deepzoom %s\n", v.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", v.Commit)
	fmt.Fprintf(out, "  Built:      %s\n", v.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", v.GoVersion)
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", v.OS, v.Arch)
}

// VersionData is the build and runtime identification of the binary.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns the current VersionData.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
