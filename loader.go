package tapestry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tapestry-ui/tapestry/internal/ffi"
)

// RequestID correlates a prefetch with a later abort. IDs are opaque
// tokens: process-wide, strictly increasing, never reused. The first
// issued ID is 1.
type RequestID int64

// CacheLocation reports where a cached image resides.
type CacheLocation string

const (
	CacheMemory     CacheLocation = "memory"
	CacheDisk       CacheLocation = "disk"
	CacheDiskMemory CacheLocation = "disk/memory"
)

// Size is an image's intrinsic dimensions in pixels.
type Size struct {
	Width  float32
	Height float32
}

// Loader is the native image-loading subsystem. Decoding, caching and
// network transport all live behind this interface; the component only
// forwards calls to it. Blocking methods honor the supplied context.
type Loader interface {
	// GetSize probes the intrinsic dimensions of the image at uri.
	GetSize(ctx context.Context, uri string) (Size, error)
	// PrefetchImage fetches and caches the image at uri without
	// displaying it. The id can be passed to AbortRequest later.
	PrefetchImage(ctx context.Context, uri string, id RequestID) error
	// AbortRequest cancels an in-flight prefetch. Unknown or completed
	// ids are the loader's business; no confirmation is surfaced.
	AbortRequest(id RequestID)
	// QueryCache reports the cache location of each uri that is cached.
	// Uncached uris are omitted from the result.
	QueryCache(ctx context.Context, uris []string) (map[string]CacheLocation, error)
}

var (
	loaderMu     sync.RWMutex
	activeLoader Loader = nativeLoader{}

	// requestCounter issues RequestIDs. Add is atomic, so concurrent
	// Prefetch calls never observe the same ID.
	requestCounter atomic.Int64
)

// SetLoader replaces the image loader. Passing nil restores the native
// FFI-backed loader. Intended for tests and for hosts that bring their
// own loading subsystem.
func SetLoader(l Loader) {
	loaderMu.Lock()
	if l == nil {
		activeLoader = nativeLoader{}
	} else {
		activeLoader = l
	}
	loaderMu.Unlock()
}

func currentLoader() Loader {
	loaderMu.RLock()
	defer loaderMu.RUnlock()
	return activeLoader
}

// GetSize probes the intrinsic dimensions of the image at uri. On success
// onSuccess receives the width and height in pixels. Failures surface only
// through onFailure; when no failure callback is supplied the error is
// logged as a warning. GetSize itself never fails synchronously.
func GetSize(ctx context.Context, uri string, onSuccess func(width, height float32), onFailure func(error)) {
	size, err := currentLoader().GetSize(ctx, uri)
	if err != nil {
		if onFailure != nil {
			onFailure(err)
			return
		}
		logger.WithError(err).Warnf("failed to get size for %q", uri)
		return
	}
	if onSuccess != nil {
		onSuccess(size.Width, size.Height)
	}
}

// Prefetch fetches and caches the image at uri without displaying it.
// onRequestID, when supplied, is invoked with the issued RequestID before
// the fetch is handed to the loader, so the caller can abort the request
// while it is still in flight. The loader's completion (success or
// failure) is returned to the caller, not to onRequestID.
func Prefetch(ctx context.Context, uri string, onRequestID func(RequestID)) error {
	id := RequestID(requestCounter.Add(1))
	if onRequestID != nil {
		onRequestID(id)
	}
	return currentLoader().PrefetchImage(ctx, uri, id)
}

// AbortPrefetch cancels the prefetch identified by id. It is
// fire-and-forget: no confirmation that the underlying fetch stopped is
// surfaced, and ids that were never issued or already completed are
// handled by the loader.
func AbortPrefetch(id RequestID) {
	currentLoader().AbortRequest(id)
}

// QueryCache reports where each of the given uris is cached. Uncached uris
// are omitted from the result. Malformed uris pass through to the loader's
// own error semantics.
func QueryCache(ctx context.Context, uris []string) (map[string]CacheLocation, error) {
	return currentLoader().QueryCache(ctx, uris)
}

// nativeLoader delegates to the engine's image loader through the FFI
// bridge. It is the default Loader.
type nativeLoader struct{}

func (nativeLoader) GetSize(ctx context.Context, uri string) (Size, error) {
	if err := ctx.Err(); err != nil {
		return Size{}, err
	}
	width, height, err := ffi.LoaderGetSize(uri)
	if err != nil {
		return Size{}, err
	}
	return Size{Width: width, Height: height}, nil
}

func (nativeLoader) PrefetchImage(ctx context.Context, uri string, id RequestID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ffi.LoaderPrefetch(uri, int64(id))
}

func (nativeLoader) AbortRequest(id RequestID) {
	ffi.LoaderAbortRequest(int64(id))
}

func (nativeLoader) QueryCache(ctx context.Context, uris []string) (map[string]CacheLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := ffi.LoaderQueryCache(uris)
	if err != nil {
		return nil, err
	}
	out := make(map[string]CacheLocation, len(raw))
	for uri, location := range raw {
		out[uri] = CacheLocation(location)
	}
	return out, nil
}
