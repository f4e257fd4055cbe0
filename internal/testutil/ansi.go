// Package testutil holds helpers shared by the package tests.
package testutil

import "regexp"

// csi matches ANSI Control Sequence Introducer codes, including the
// 256-colour form ESC[38;5;Nm used by the ui themes.
var csi = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes terminal escape codes so that coloured CLI output can be
// compared as plain text.
func StripANSI(s string) string {
	return csi.ReplaceAllString(s, "")
}
