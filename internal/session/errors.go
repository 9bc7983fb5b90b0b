package session

import "errors"

var (
	// ErrPlayerNotFound means a participant could not be loaded from the
	// player store, either when joining the lobby or when rating a
	// completed match.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrPersistenceFailure means the store rejected a write. The match and
	// its pending ratings are left as they were so the call can be retried.
	ErrPersistenceFailure = errors.New("failed to persist match result")
	ErrNothingToSubmit    = errors.New("no pending ratings to submit")
	ErrNotComplete        = errors.New("match is not complete")
)
