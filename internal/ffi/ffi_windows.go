//go:build windows

package ffi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var winDLL *windows.DLL

// openLibrary loads the engine dynamic library on Windows
func openLibrary(path string) (uintptr, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return 0, fmt.Errorf("LoadDLL failed: %w", err)
	}
	winDLL = dll
	// Return the actual HMODULE handle, not a pointer to the DLL struct
	return uintptr(dll.Handle), nil
}
