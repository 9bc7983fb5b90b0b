package player

import "errors"

var (
	ErrNotFound        = errors.New("player not found")
	ErrDuplicateName   = errors.New("a player with that name already exists")
	ErrInvalidName     = errors.New("player name must not be empty")
	ErrNameTooLong     = errors.New("player name is too long")
	ErrMalformedRecord = errors.New("player record is malformed")
)
