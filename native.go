package tapestry

import (
	"encoding/json"
	"fmt"

	"github.com/tapestry-ui/tapestry/internal/ffi"
)

// Mount submits a rendered element to the native engine, which creates
// (or updates) the corresponding native view. The prop bag is encoded as
// JSON; the ref entry is dropped because it only has meaning on the Go
// side.
func Mount(element *Element) error {
	if element == nil {
		return fmt.Errorf("mount: nil element")
	}

	props := make(NativeProps, len(element.Props))
	for k, v := range element.Props {
		if k == "ref" {
			continue
		}
		props[k] = v
	}

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("mount %s: encode props: %w", element.Primitive, err)
	}
	return ffi.MountView(string(element.Primitive), string(data))
}

// EngineVersion reports the version string of the loaded native engine.
// This is a re-export of ffi.EngineVersion for consumer convenience.
func EngineVersion() (string, error) {
	return ffi.EngineVersion()
}
