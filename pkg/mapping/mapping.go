// Package mapping defines the column-to-schema association produced by
// detection and corrected by users. A Mapping assigns each target field either
// a source column or a file-level constant; predicted and corrected mappings
// are always independent values so edits on one can never leak into the other.
package mapping

import (
	"sort"

	"github.com/goliatone/go-importwizard/pkg/tabular"
)

// EntryKind tags how a target field is resolved.
type EntryKind string

const (
	// EntryKindColumn resolves the field from a source column per row.
	EntryKindColumn EntryKind = "column"
	// EntryKindConstant resolves the field to a fixed value for every row.
	EntryKindConstant EntryKind = "constant"
)

// Entry resolves one target field.
type Entry struct {
	Kind     EntryKind
	Column   tabular.Column
	Constant string
}

// ColumnEntry returns an Entry resolving the field from col.
func ColumnEntry(col tabular.Column) Entry {
	return Entry{Kind: EntryKindColumn, Column: col}
}

// ConstantEntry returns an Entry resolving the field to a fixed value.
func ConstantEntry(value string) Entry {
	return Entry{Kind: EntryKindConstant, Constant: value}
}

// Mapping associates target-field names with their resolution entries.
type Mapping map[string]Entry

// Clone returns an independent copy. A nil mapping clones to nil.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	for field, entry := range m {
		out[field] = entry
	}
	return out
}

// Equal reports value equality. Nil and empty mappings compare equal.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for field, entry := range m {
		if other[field] != entry {
			return false
		}
	}
	return true
}

// Complete reports whether every required field has an entry.
func (m Mapping) Complete(required []string) bool {
	return len(m.MissingFields(required)) == 0
}

// MissingFields returns the required fields without an entry, sorted for
// stable diagnostics.
func (m Mapping) MissingFields(required []string) []string {
	var missing []string
	for _, field := range required {
		if _, ok := m[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

// Fields returns the mapped field names in sorted order.
func (m Mapping) Fields() []string {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// HasConstant reports whether any entry resolves to a fixed value.
func (m Mapping) HasConstant() bool {
	for _, entry := range m {
		if entry.Kind == EntryKindConstant {
			return true
		}
	}
	return false
}

// Merge overlays overrides on base and returns the effective mapping. Neither
// argument is mutated; entries in overrides win.
func Merge(base, overrides Mapping) Mapping {
	out := make(Mapping, len(base)+len(overrides))
	for field, entry := range base {
		out[field] = entry
	}
	for field, entry := range overrides {
		out[field] = entry
	}
	return out
}
