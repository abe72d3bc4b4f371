package tapestry

// Source is a structured reference to an image: a URI plus optional
// intrinsic dimensions and request headers. It is the canonical form every
// source specification resolves to.
type Source struct {
	URI     string            `json:"uri"`
	Width   float32           `json:"width,omitempty"`
	Height  float32           `json:"height,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// AssetHandle is an opaque reference to an image bundled with the
// application. Handles are issued by the asset pipeline and resolved
// through the process-wide asset registry.
type AssetHandle int32

// ResolveSource normalizes a source specification into a list of candidate
// sources. Accepted specifications:
//
//	nil          no image
//	Source       a single descriptor
//	*Source      a single descriptor (nil pointer means no image)
//	AssetHandle  resolved through the asset registry
//	[]Source     candidates for renderer-chosen resolution
//
// The second return value reports whether the specification was a single
// descriptor rather than a candidate list. A single zero-value descriptor
// normalizes to nil. A descriptor with an empty URI but other fields set
// is accepted with a logged warning.
//
// Resolving an asset handle is a pure function of the handle and the
// registry contents: the same handle yields structurally equal results.
func ResolveSource(spec any) ([]Source, bool) {
	switch s := spec.(type) {
	case nil:
		return nil, false
	case AssetHandle:
		src, ok := LookupAsset(s)
		if !ok {
			return nil, false
		}
		return []Source{src}, true
	case Source:
		return resolveDescriptor(s)
	case *Source:
		if s == nil {
			return nil, false
		}
		return resolveDescriptor(*s)
	case []Source:
		if len(s) == 0 {
			return nil, false
		}
		out := make([]Source, len(s))
		for i, c := range s {
			warnEmptyURI(c)
			out[i] = c
		}
		return out, false
	default:
		logger.Warnf("unsupported source specification %T, treating as no image", spec)
		return nil, false
	}
}

func resolveDescriptor(s Source) ([]Source, bool) {
	if s.URI == "" && s.Width == 0 && s.Height == 0 && s.Headers == nil {
		return nil, false
	}
	warnEmptyURI(s)
	return []Source{s}, true
}

func warnEmptyURI(s Source) {
	if s.URI == "" {
		logger.Warn("image source should not have an empty uri")
	}
}
