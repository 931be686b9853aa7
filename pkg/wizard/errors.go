package wizard

import "errors"

var (
	// ErrNoInput is returned by operations that need a loaded input table.
	ErrNoInput = errors.New("wizard: no input loaded")
	// ErrNoTemplate is returned by operations that need a selected template.
	ErrNoTemplate = errors.New("wizard: no template selected")
	// ErrMappingIncomplete disables preview generation while required fields
	// remain unmapped. It marks an intermediate state, not a failure.
	ErrMappingIncomplete = errors.New("wizard: mapping is incomplete")
	// ErrPreviewNotRequested gates package generation on an explicit preview.
	ErrPreviewNotRequested = errors.New("wizard: preview has not been requested")
)
