// Package ffi provides Go bindings to the Tapestry native engine via
// purego. Using purego instead of CGo keeps cross-compilation and mobile
// platform builds simple.
package ffi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ============================================================================
// Library Loading
// ============================================================================

var (
	libHandle   uintptr
	libOnce     sync.Once
	libErr      error
	initialized bool
)

// Library function pointers (populated by initLibrary)
var (
	// Image loader functions
	fnLoaderGetSize      func(uri uintptr, widthOut uintptr, heightOut uintptr) int32
	fnLoaderPrefetch     func(uri uintptr, requestID int64) int32
	fnLoaderAbortRequest func(requestID int64)
	fnLoaderQueryCache   func(urisJSON uintptr) uintptr

	// View functions
	fnViewMount func(kind uintptr, propsJSON uintptr) int32

	// System functions
	fnEngineVersion func() uintptr
	fnFreeString    func(ptr uintptr)
)

// getLibraryPath returns the path to the engine dynamic library.
func getLibraryPath() string {
	// Check environment variable first
	if path := os.Getenv("TAPESTRY_LIB_PATH"); path != "" {
		return path
	}

	var libName string
	switch runtime.GOOS {
	case "darwin", "ios":
		libName = "libtapestry_engine.dylib"
	case "linux", "android":
		libName = "libtapestry_engine.so"
	case "windows":
		libName = "tapestry_engine.dll"
	default:
		libName = "libtapestry_engine.so"
	}

	// Check common locations
	searchPaths := []string{
		libName,
		filepath.Join(".", libName),
		// engine/target/release and debug (development)
		filepath.Join("engine", "target", "release", libName),
		filepath.Join("engine", "target", "debug", libName),
	}

	// Also check relative to the executable
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		searchPaths = append(searchPaths,
			filepath.Join(execDir, libName),
			filepath.Join(execDir, "..", "lib", libName),
		)
		// iOS/macOS app bundle locations
		if runtime.GOOS == "ios" || runtime.GOOS == "darwin" {
			searchPaths = append(searchPaths,
				filepath.Join(execDir, "Frameworks", libName),
				filepath.Join(execDir, "..", "Frameworks", libName),
			)
		}
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}

	// Default to the bare library name (let the system resolver find it)
	return libName
}

// initLibrary loads the dynamic library and registers all function pointers.
func initLibrary() error {
	libOnce.Do(func() {
		libPath := getLibraryPath()

		libHandle, libErr = openLibrary(libPath)
		if libErr != nil {
			libErr = fmt.Errorf("failed to load tapestry engine library from %s: %w", libPath, libErr)
			return
		}

		registerLoaderFunctions()
		registerViewFunctions()
		registerSystemFunctions()

		initialized = true
	})

	return libErr
}

func ensureInit() error {
	if initialized {
		return nil
	}
	return initLibrary()
}

func registerLoaderFunctions() {
	purego.RegisterLibFunc(&fnLoaderGetSize, libHandle, "tapestry_loader_get_size")
	purego.RegisterLibFunc(&fnLoaderPrefetch, libHandle, "tapestry_loader_prefetch")
	purego.RegisterLibFunc(&fnLoaderAbortRequest, libHandle, "tapestry_loader_abort_request")
	purego.RegisterLibFunc(&fnLoaderQueryCache, libHandle, "tapestry_loader_query_cache")
}

func registerViewFunctions() {
	purego.RegisterLibFunc(&fnViewMount, libHandle, "tapestry_view_mount")
}

func registerSystemFunctions() {
	purego.RegisterLibFunc(&fnEngineVersion, libHandle, "tapestry_engine_version")
	purego.RegisterLibFunc(&fnFreeString, libHandle, "tapestry_free_string")
}

// goString copies a NUL-terminated C string into Go memory.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var out []byte
	for p := ptr; ; p++ {
		b := *(*byte)(unsafe.Pointer(p))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

// ============================================================================
// Image Loader
// ============================================================================

// LoaderError describes a failure reported by the native image loader.
type LoaderError struct {
	Code    int
	Message string
}

func (e *LoaderError) Error() string {
	return e.Message
}

func loaderErrorMessage(code int) string {
	switch code {
	case -1:
		return "invalid parameters"
	case -2:
		return "loader not initialized"
	case -3:
		return "network request failed"
	case -4:
		return "failed to decode image"
	case -5:
		return "request not found"
	default:
		return "unknown image loader error"
	}
}

// LoaderGetSize probes the intrinsic dimensions of the image at uri.
func LoaderGetSize(uri string) (float32, float32, error) {
	if err := ensureInit(); err != nil {
		return 0, 0, err
	}
	if uri == "" {
		return 0, 0, &LoaderError{Code: -1, Message: "empty uri"}
	}

	uriBytes := append([]byte(uri), 0)
	var width, height float32
	result := fnLoaderGetSize(
		uintptr(unsafe.Pointer(&uriBytes[0])),
		uintptr(unsafe.Pointer(&width)),
		uintptr(unsafe.Pointer(&height)),
	)
	runtime.KeepAlive(uriBytes)

	if result < 0 {
		return 0, 0, &LoaderError{Code: int(result), Message: loaderErrorMessage(int(result))}
	}
	return width, height, nil
}

// LoaderPrefetch asks the engine to fetch and cache the image at uri.
// The requestID can later be passed to LoaderAbortRequest.
func LoaderPrefetch(uri string, requestID int64) error {
	if err := ensureInit(); err != nil {
		return err
	}
	if uri == "" {
		return &LoaderError{Code: -1, Message: "empty uri"}
	}

	uriBytes := append([]byte(uri), 0)
	result := fnLoaderPrefetch(uintptr(unsafe.Pointer(&uriBytes[0])), requestID)
	runtime.KeepAlive(uriBytes)

	if result < 0 {
		return &LoaderError{Code: int(result), Message: loaderErrorMessage(int(result))}
	}
	return nil
}

// LoaderAbortRequest cancels an in-flight prefetch. Aborting an unknown or
// completed request is a no-op on the engine side.
func LoaderAbortRequest(requestID int64) {
	if !initialized {
		return
	}
	fnLoaderAbortRequest(requestID)
}

// LoaderQueryCache reports the cache location ("memory", "disk" or
// "disk/memory") of each cached uri. Uncached uris are omitted from the
// result.
func LoaderQueryCache(uris []string) (map[string]string, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}

	request, err := json.Marshal(uris)
	if err != nil {
		return nil, fmt.Errorf("encode cache query: %w", err)
	}

	requestBytes := append(request, 0)
	resultPtr := fnLoaderQueryCache(uintptr(unsafe.Pointer(&requestBytes[0])))
	runtime.KeepAlive(requestBytes)

	if resultPtr == 0 {
		return nil, &LoaderError{Code: -2, Message: loaderErrorMessage(-2)}
	}
	payload := goString(resultPtr)
	fnFreeString(resultPtr)

	result := make(map[string]string)
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode cache query result: %w", err)
	}
	return result, nil
}

// ============================================================================
// Views
// ============================================================================

// MountView creates or updates a native view of the given kind from a
// JSON-encoded prop bag.
func MountView(kind string, propsJSON string) error {
	if err := ensureInit(); err != nil {
		return err
	}

	kindBytes := append([]byte(kind), 0)
	propsBytes := append([]byte(propsJSON), 0)
	result := fnViewMount(
		uintptr(unsafe.Pointer(&kindBytes[0])),
		uintptr(unsafe.Pointer(&propsBytes[0])),
	)
	runtime.KeepAlive(kindBytes)
	runtime.KeepAlive(propsBytes)

	if result < 0 {
		return &LoaderError{Code: int(result), Message: loaderErrorMessage(int(result))}
	}
	return nil
}

// ============================================================================
// System
// ============================================================================

// EngineVersion reports the engine's version string.
func EngineVersion() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	ptr := fnEngineVersion()
	version := goString(ptr)
	if ptr != 0 {
		fnFreeString(ptr)
	}
	return version, nil
}
