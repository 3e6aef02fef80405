package hexgame

import (
	"errors"
	"fmt"
)

// Rule-rejection causes. A ValidationError unwraps to one of these.
var (
	ErrGameOver             = errors.New("game is over")
	ErrNotOwner             = errors.New("entity not owned by current player")
	ErrNotAtWar             = errors.New("owners are not at war")
	ErrAtWar                = errors.New("owners are at war")
	ErrInsufficientMovement = errors.New("insufficient movement")
	ErrUnreachable          = errors.New("destination unreachable")
	ErrOutOfRange           = errors.New("target out of range")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrPrerequisite         = errors.New("prerequisite not met")
	ErrCapacity             = errors.New("capacity exceeded")
	ErrInvalidChoice        = errors.New("invalid choice")
	ErrAlreadyDone          = errors.New("already done")
	ErrNoSpace              = errors.New("no free tile")
	ErrTradeLocked          = errors.New("trade not unlocked")
	ErrAllied               = errors.New("tribes are allied")
	ErrAlreadyAtWar         = errors.New("already at war")
	ErrSwapNotPermitted     = errors.New("policy swap not permitted")
	ErrDiplomacy            = errors.New("diplomatic state forbids this")
	ErrUnitCannot           = errors.New("unit type cannot do this")
	ErrUnknownAction        = errors.New("unknown action")
)

// ValidationError is a recoverable rule rejection. The state it was checked
// against is left untouched.
type ValidationError struct {
	Action  ActionType
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invalid %s: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v: %s", e.Action, e.Err, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IntegrityError reports an action referencing an entity that does not
// exist. Callers should treat it as a programming error, not UI feedback.
type IntegrityError struct {
	Action ActionType
	Entity string
	ID     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s references unknown %s %q", e.Action, e.Entity, e.ID)
}

// IsIntegrity reports whether err is or wraps an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

func reject(a ActionType, cause error, format string, args ...any) error {
	return &ValidationError{Action: a, Err: cause, Message: fmt.Sprintf(format, args...)}
}

func missing(a ActionType, entity, id string) error {
	return &IntegrityError{Action: a, Entity: entity, ID: id}
}
