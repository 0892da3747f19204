package panel

// State is where the panel is in the analyze/generate flow.
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateAnalyzed
	StateGenerating
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAnalyzing:
		return "Analyzing"
	case StateAnalyzed:
		return "Analyzed"
	case StateGenerating:
		return "Generating"
	case StateDone:
		return "Done"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Busy reports whether a chain is running in this state.
func (s State) Busy() bool {
	return s == StateAnalyzing || s == StateGenerating
}
