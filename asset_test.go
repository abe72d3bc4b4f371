package tapestry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAssetManifest(t *testing.T) {
	path := writeManifest(t, `
[[asset]]
handle = 8001
uri = "asset://images/logo.png"
width = 120
height = 40

[[asset]]
handle = 8002
uri = "asset://images/splash.png"
`)

	require.NoError(t, LoadAssetManifest(path))

	logo, ok := LookupAsset(AssetHandle(8001))
	require.True(t, ok)
	assert.Equal(t, Source{URI: "asset://images/logo.png", Width: 120, Height: 40}, logo)

	splash, ok := LookupAsset(AssetHandle(8002))
	require.True(t, ok)
	assert.Equal(t, "asset://images/splash.png", splash.URI)
	assert.Zero(t, splash.Width)
}

func TestLoadAssetManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "not toml",
			contents: `{"asset": []}`,
		},
		{
			name: "missing handle",
			contents: `
[[asset]]
uri = "asset://images/logo.png"
`,
		},
		{
			name: "missing uri",
			contents: `
[[asset]]
handle = 8003
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.contents)
			assert.Error(t, LoadAssetManifest(path))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, LoadAssetManifest(filepath.Join(t.TempDir(), "missing.toml")))
	})
}

func TestRegisterAssetReplaces(t *testing.T) {
	handle := AssetHandle(8004)
	RegisterAsset(handle, Source{URI: "asset://v1.png"})
	RegisterAsset(handle, Source{URI: "asset://v2.png"})

	src, ok := LookupAsset(handle)
	require.True(t, ok)
	assert.Equal(t, "asset://v2.png", src.URI)
}
