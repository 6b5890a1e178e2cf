package checkout

// State of a single checkout flow. A flow starts in Shipping and moves
// forward only through user-driven transitions; Confirmed is terminal.
type State string

const (
	StateShipping  State = "SHIPPING"
	StateReview    State = "REVIEW"
	StateConfirmed State = "CONFIRMED"
)

var validNext = map[State]map[State]bool{
	StateShipping:  {StateReview: true},
	StateReview:    {StateShipping: true, StateConfirmed: true},
	StateConfirmed: {},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

func (s State) IsTerminal() bool {
	return s == StateConfirmed
}

func (s State) String() string {
	return string(s)
}
