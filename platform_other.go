//go:build !darwin && !ios

package tapestry

// detectDarwinPlatform is never reached off darwin; it exists so that
// CurrentPlatform links on every platform.
func detectDarwinPlatform() Platform {
	return PlatformUnknown
}
