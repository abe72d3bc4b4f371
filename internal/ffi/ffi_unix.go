//go:build darwin || linux || ios || android

package ffi

import (
	"github.com/ebitengine/purego"
)

// openLibrary loads the engine dynamic library on Unix-like systems
func openLibrary(path string) (uintptr, error) {
	const RTLD_LAZY = 0x1
	return purego.Dlopen(path, RTLD_LAZY)
}
