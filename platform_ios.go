//go:build ios

package tapestry

// detectDarwinPlatform returns iOS on ios builds
func detectDarwinPlatform() Platform {
	return PlatformIOS
}
