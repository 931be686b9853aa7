package mapping

// ValueMap normalizes raw cell values to canonical identifiers, e.g. place
// names to their resolved place IDs. Keys are raw values as they appear in the
// source table.
type ValueMap map[string]string

// Clone returns an independent copy. A nil value map clones to nil.
func (vm ValueMap) Clone() ValueMap {
	if vm == nil {
		return nil
	}
	out := make(ValueMap, len(vm))
	for raw, canonical := range vm {
		out[raw] = canonical
	}
	return out
}

// Empty reports whether no normalization is recorded.
func (vm ValueMap) Empty() bool {
	return len(vm) == 0
}

// Apply returns the canonical value for raw, or raw itself when no
// normalization is recorded.
func (vm ValueMap) Apply(raw string) string {
	if canonical, ok := vm[raw]; ok {
		return canonical
	}
	return raw
}
