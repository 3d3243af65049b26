package simulation

import "errors"

var (
	ErrNoTransitions  = errors.New("simulation: subnet has no transitions")
	ErrNotInitialized = errors.New("simulation: simulator not initialized")
	ErrTerminal       = errors.New("simulation: simulator reached a terminal state")
	ErrBadTransition  = errors.New("simulation: illegal lifecycle transition")
	ErrNoSnapshot     = errors.New("simulation: no snapshot to initialize from")
)
