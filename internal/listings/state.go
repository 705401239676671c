package listings

import (
	"fmt"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

// State is the combined {lifecycle_status, status} pair of a property.
type State struct {
	Lifecycle enums.LifecycleStatus
	Status    enums.PropertyStatus
}

var (
	StatePending   = State{enums.LifecycleRequested, enums.PropertyStatusPending}
	StateAvailable = State{enums.LifecycleEnlisted, enums.PropertyStatusAvailable}
	StateSold      = State{enums.LifecycleSold, enums.PropertyStatusSold}
	StateRemoved   = State{enums.LifecycleRemoved, enums.PropertyStatusInactive}
)

// Action moves a property between states.
type Action string

const (
	ActionComplete Action = "complete"
	ActionSell     Action = "sell"
	ActionRemove   Action = "remove"
)

// StateOf reads the combined state of p.
func StateOf(p *models.Property) State {
	return State{Lifecycle: p.LifecycleStatus, Status: p.Status}
}

func (s State) String() string {
	return fmt.Sprintf("%s/%s", s.Lifecycle, s.Status)
}

// Valid reports whether s is one of the four permitted combinations.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateAvailable, StateSold, StateRemoved:
		return true
	}
	return false
}

// Terminal reports whether no action can leave s.
func (s State) Terminal() bool {
	return s == StateSold || s == StateRemoved
}

// Sellable reports whether a sale may be recorded against s.
func (s State) Sellable() bool {
	return s == StateAvailable
}

// Transition is the only place that decides how a property's state may change.
// Selling an already sold property yields CONFLICT; every other disallowed
// move yields STATE_CONFLICT.
func Transition(from State, action Action) (State, error) {
	if !from.Valid() {
		return State{}, stateConflict(from, action, "property is in an inconsistent state")
	}

	switch action {
	case ActionComplete:
		if from == StatePending {
			return StateAvailable, nil
		}
		return State{}, stateConflict(from, action, "only requested properties can be completed")
	case ActionSell:
		if from == StateSold {
			return State{}, pkgerrors.New(pkgerrors.CodeConflict, "property already sold")
		}
		if from.Sellable() {
			return StateSold, nil
		}
		return State{}, stateConflict(from, action, "property is not available for sale")
	case ActionRemove:
		if !from.Terminal() {
			return StateRemoved, nil
		}
		return State{}, stateConflict(from, action, "property can no longer be removed")
	}
	return State{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown action %q", action)
}

func stateConflict(from State, action Action, message string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, message).WithDetails(map[string]any{
		"from":   from.String(),
		"action": string(action),
	})
}
