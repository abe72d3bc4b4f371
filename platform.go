package tapestry

import "runtime"

// Platform represents the operating system the component is running on.
type Platform string

const (
	PlatformMacOS   Platform = "darwin"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// CurrentPlatform returns the platform the app is running on.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin", "ios":
		// GOOS=ios also satisfies the darwin build tag, so the two are
		// told apart by build-tagged helpers.
		return detectDarwinPlatform()
	case "android":
		return PlatformAndroid
	case "linux":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// IsMobile returns true if running on iOS or Android.
func IsMobile() bool {
	p := CurrentPlatform()
	return p == PlatformIOS || p == PlatformAndroid
}

// IsDesktop returns true if running on macOS, Linux, or Windows.
func IsDesktop() bool {
	p := CurrentPlatform()
	return p == PlatformMacOS || p == PlatformLinux || p == PlatformWindows
}
