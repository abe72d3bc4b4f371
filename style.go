package tapestry

// Style is a single style fragment: a mapping of style keys to values.
// Fragments are composed with FlattenStyle rather than mutated in place.
type Style map[string]any

// FlattenStyle merges an ordered sequence of style fragments into one
// mapping. Nil fragments are skipped. When two fragments set the same key,
// the later fragment wins.
func FlattenStyle(fragments ...Style) Style {
	flat := make(Style)
	for _, f := range fragments {
		for k, v := range f {
			flat[k] = v
		}
	}
	return flat
}
