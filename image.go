package tapestry

import "errors"

// Primitive identifies the native rendering target for an element.
type Primitive string

const (
	// PrimitiveImageView is the standalone native image view.
	PrimitiveImageView Primitive = "ImageView"
	// PrimitiveTextInlineImage renders an image inline within a text run.
	PrimitiveTextInlineImage Primitive = "TextInlineImage"
)

// NativeProps is the flattened property bag handed to a native primitive.
// It lives for a single render pass and is never retained.
type NativeProps map[string]any

// Element pairs a native primitive with its prop bag. A successful render
// produces exactly one element.
type Element struct {
	Primitive Primitive
	Props     NativeProps
}

// RenderContext carries the ambient signals read at render time.
type RenderContext struct {
	// InsideText is true when the image renders within a text run, which
	// selects the inline-in-text primitive instead of the standalone view.
	InsideText bool
}

// Fatal render errors. Both abort the render before any native primitive
// is produced.
var (
	// ErrNestedChildren is returned when an image is given child widgets.
	ErrNestedChildren = errors.New("image widgets cannot contain children")
	// ErrConflictingPlaceholders is returned when both a default source
	// and a loading indicator source are set.
	ErrConflictingPlaceholders = errors.New("cannot set both DefaultSource and LoadingIndicatorSource")
)

// ImageProps are the declarative properties of an image widget.
type ImageProps struct {
	// Source specifies the image to display: a Source, *Source,
	// AssetHandle, or []Source of candidates. See ResolveSource.
	Source any
	// DefaultSource is shown until the main source finishes loading.
	DefaultSource any
	// LoadingIndicatorSource is shown while the main source loads.
	// Mutually exclusive with DefaultSource.
	LoadingIndicatorSource any
	// Style is the caller-supplied style fragment. It is merged last, so
	// its keys win over the intrinsic-size and base fragments.
	Style Style

	// ResizeMode controls how the image fits its bounds: "contain",
	// "cover", "fill", "none" or "scale-down".
	ResizeMode string
	// BlurRadius applies a native blur when greater than zero.
	BlurRadius float32
	// Alt is the accessibility description of the image.
	Alt string
	// TestID tags the native view for UI tests.
	TestID string

	// Load-event callbacks. Their presence (not identity) is forwarded to
	// the native view as shouldNotifyLoadEvents; the native loader invokes
	// them asynchronously, outside this component's control flow.
	OnLoadStart func()
	OnLoad      func(Source)
	OnLoadEnd   func()
	OnError     func(error)

	// Children is rejected: images are leaf widgets.
	Children []any
	// Src is deprecated; use Source. Setting it logs a warning and the
	// value is otherwise ignored.
	Src string
	// Ref is forwarded untouched so hosts can correlate the native view
	// with their own bookkeeping.
	Ref any
}

// ImageFromURL builds image props for a remote URI.
func ImageFromURL(uri string, style Style) ImageProps {
	return ImageProps{Source: Source{URI: uri}, Style: style}
}

// ImageFromAsset builds image props for a bundled-asset handle.
func ImageFromAsset(handle AssetHandle, style Style) ImageProps {
	return ImageProps{Source: handle, Style: style}
}

// RenderImage resolves sources, merges style fragments and produces the
// native element for an image widget. It is a pure function of its
// arguments: the framework re-invokes it on every prop or context change
// and no state is retained between calls.
//
// The image itself is decoded and fetched natively, asynchronously; this
// function performs no I/O.
func RenderImage(props ImageProps, ctx RenderContext) (*Element, error) {
	if len(props.Children) > 0 {
		return nil, ErrNestedChildren
	}

	sources, single := ResolveSource(props.Source)
	defaultSources, _ := ResolveSource(props.DefaultSource)
	loadingSources, _ := ResolveSource(props.LoadingIndicatorSource)

	if defaultSources != nil && loadingSources != nil {
		return nil, ErrConflictingPlaceholders
	}
	if props.Src != "" {
		logger.Warn("the Src prop is deprecated, use Source instead")
	}

	// A single descriptor with a URI contributes its intrinsic dimensions
	// ahead of the base and caller fragments.
	var sizeStyle Style
	var headers map[string]string
	if single && len(sources) == 1 && sources[0].URI != "" {
		src := sources[0]
		headers = src.Headers
		if src.Width != 0 || src.Height != 0 {
			sizeStyle = Style{}
			if src.Width != 0 {
				sizeStyle["width"] = src.Width
			}
			if src.Height != 0 {
				sizeStyle["height"] = src.Height
			}
		}
	}

	style := FlattenStyle(sizeStyle, Style{"overflow": "hidden"}, props.Style)

	notify := props.OnLoadStart != nil || props.OnLoad != nil ||
		props.OnLoadEnd != nil || props.OnError != nil

	bag := NativeProps{
		"style":                  style,
		"shouldNotifyLoadEvents": notify,
		"src":                    sources,
		"headers":                headers,
		"defaultSrc":             firstURI(defaultSources),
		"loadingIndicatorSrc":    firstURI(loadingSources),
		"ref":                    props.Ref,
	}
	if props.ResizeMode != "" {
		bag["resizeMode"] = props.ResizeMode
	}
	if props.BlurRadius > 0 {
		bag["blurRadius"] = props.BlurRadius
	}
	if props.Alt != "" {
		bag["alt"] = props.Alt
	}
	if props.TestID != "" {
		bag["testID"] = props.TestID
	}

	primitive := PrimitiveImageView
	if ctx.InsideText {
		primitive = PrimitiveTextInlineImage
	}
	return &Element{Primitive: primitive, Props: bag}, nil
}

// firstURI returns the URI of the first resolved source, or nil when the
// resolution produced no image.
func firstURI(sources []Source) any {
	if len(sources) == 0 {
		return nil
	}
	return sources[0].URI
}
