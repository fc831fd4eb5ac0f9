// Package platform holds host-platform facts resolved once per process.
package platform

import (
	"runtime"
	"sync"
)

var nullDevice = sync.OnceValue(func() string {
	if runtime.GOOS == "windows" {
		return "NUL"
	}
	return "/dev/null"
})

// NullDevice is the path of the host's null device. Callers treat it as an
// opaque token to hand to external tools.
func NullDevice() string {
	return nullDevice()
}
