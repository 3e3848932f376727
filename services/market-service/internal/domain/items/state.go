package items

import "fmt"

// ItemState is the sale status of an item.
type ItemState string

const (
	StateAvailable ItemState = "available"
	StateReserved  ItemState = "reserved"
	StateSold      ItemState = "sold"
	StateArchived  ItemState = "archived"
)

// transitions lists every legal move; sold and archived are terminal.
var transitions = map[ItemState][]ItemState{
	StateAvailable: {StateReserved, StateSold, StateArchived},
	StateReserved:  {StateAvailable, StateSold},
	StateSold:      nil,
	StateArchived:  nil,
}

// ParseState converts the stored representation.
func ParseState(s string) (ItemState, error) {
	state := ItemState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("unknown item state %q", s)
	}
	return state, nil
}

func (s ItemState) String() string {
	return string(s)
}

func (s ItemState) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s ItemState) CanTransitionTo(next ItemState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsBids is true while the item is available or reserved.
func (s ItemState) AcceptsBids() bool {
	return s == StateAvailable || s == StateReserved
}

func (s ItemState) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}
