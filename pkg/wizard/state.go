package wizard

// State enumerates the wizard-step lifecycle. A session starts Initial, moves
// to Predicted once a prediction exists for the active input and template,
// and reaches PreviewRequested only through an explicit GeneratePreview call.
// Changing the input or template drops the session back to Predicted and
// discards the stale preview.
type State int

const (
	// StateInitial means no predicted mapping exists yet.
	StateInitial State = iota
	// StatePredicted means a prediction is available for correction.
	StatePredicted
	// StatePreviewRequested means the preview has been explicitly generated.
	StatePreviewRequested
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StatePredicted:
		return "predicted"
	case StatePreviewRequested:
		return "preview-requested"
	default:
		return "unknown"
	}
}
