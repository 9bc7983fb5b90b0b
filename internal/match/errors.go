package match

import "errors"

var (
	ErrMatchInProgress      = errors.New("match already started")
	ErrNotReady             = errors.New("both participants are required to start a match")
	ErrNotStarted           = errors.New("match has not started")
	ErrMatchComplete        = errors.New("match is already complete")
	ErrInvalidTarget        = errors.New("invalid target score")
	ErrInvalidPoints        = errors.New("points must not be negative")
	ErrInvalidInput         = errors.New("score input is not a number")
	ErrInvalidSide          = errors.New("side must be 1 or 2")
	ErrDuplicateParticipant = errors.New("player is already in the match")
	ErrInvalidParticipant   = errors.New("participant requires an id")
	ErrInvalidType          = errors.New("unknown match type")
	ErrInvalidSnapshot      = errors.New("invalid match snapshot")
)
