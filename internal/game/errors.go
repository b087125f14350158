package game

import "errors"

// ErrContractViolation marks a call the engine's state machine does not
// allow. It signals a defect in the caller, never a wrong guess.
var ErrContractViolation = errors.New("contract violation")
