package tapestry

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

var (
	assetMu       sync.RWMutex
	assetRegistry = make(map[AssetHandle]Source)
)

// RegisterAsset records the descriptor for a bundled-asset handle.
// Registering the same handle again replaces the previous descriptor.
func RegisterAsset(handle AssetHandle, src Source) {
	assetMu.Lock()
	assetRegistry[handle] = src
	assetMu.Unlock()
}

// LookupAsset returns the descriptor registered for handle.
func LookupAsset(handle AssetHandle) (Source, bool) {
	assetMu.RLock()
	defer assetMu.RUnlock()
	src, ok := assetRegistry[handle]
	return src, ok
}

// assetManifest mirrors the on-disk TOML layout of a bundled-asset
// manifest generated by the asset pipeline.
type assetManifest struct {
	Assets []assetEntry `toml:"asset"`
}

type assetEntry struct {
	Handle int32   `toml:"handle"`
	URI    string  `toml:"uri"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// LoadAssetManifest reads a TOML asset manifest and registers every entry
// with the asset registry. A manifest looks like:
//
//	[[asset]]
//	handle = 1
//	uri = "asset://images/logo.png"
//	width = 120
//	height = 40
func LoadAssetManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read asset manifest: %w", err)
	}

	var manifest assetManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parse asset manifest %s: %w", path, err)
	}

	for i, entry := range manifest.Assets {
		if entry.Handle == 0 {
			return fmt.Errorf("asset manifest %s: entry %d is missing a handle", path, i)
		}
		if entry.URI == "" {
			return fmt.Errorf("asset manifest %s: asset %d is missing a uri", path, entry.Handle)
		}
		RegisterAsset(AssetHandle(entry.Handle), Source{
			URI:    entry.URI,
			Width:  entry.Width,
			Height: entry.Height,
		})
	}
	return nil
}
