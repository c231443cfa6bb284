// Package version reports the build version.
package version

import (
	"bytes"
	_ "embed"
)

// HeaderName is the HTTP response header carrying the version.
const HeaderName = "X-Midisplit-Version"

//go:embed version.txt
var versionBytes []byte

// Version returns the version of this code.
func Version() string {
	return string(bytes.TrimSpace(versionBytes))
}
