package session

// NavigationOutcome classifies the result of a navigation call. None of
// these are errors: AtStart, AtEnd and NoFreeExerciseAhead are normal
// outcomes the caller is expected to act on.
type NavigationOutcome int

const (
	// OutcomeAdvanced means the current index moved.
	OutcomeAdvanced NavigationOutcome = iota
	// OutcomeAtStart means Previous was called at index 0.
	OutcomeAtStart
	// OutcomeAtEnd means Next was called at the final index. The
	// session is not auto-completed; Complete is a separate call.
	OutcomeAtEnd
	// OutcomeNoFreeExerciseAhead means every exercise ahead is
	// restricted and denied by the access policy. The index is
	// unchanged and the caller should offer an upgrade.
	OutcomeNoFreeExerciseAhead
)

func (o NavigationOutcome) String() string {
	switch o {
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeAtStart:
		return "at_start"
	case OutcomeAtEnd:
		return "at_end"
	case OutcomeNoFreeExerciseAhead:
		return "no_free_exercise_ahead"
	default:
		return "unknown"
	}
}

func (o NavigationOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// NavigationResult reports the outcome of Next or Previous and the
// current index after the call.
type NavigationResult struct {
	Outcome NavigationOutcome `json:"outcome"`
	Index   int               `json:"index"`
}
