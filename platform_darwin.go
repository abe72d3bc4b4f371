//go:build darwin && !ios

package tapestry

// detectDarwinPlatform returns macOS on non-iOS darwin builds
func detectDarwinPlatform() Platform {
	return PlatformMacOS
}
