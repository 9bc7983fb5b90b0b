package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/session"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeConflict           = "CONFLICT"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error code.
type httpError struct {
	status  int
	code    string
	message string
}

func (e *httpError) Error() string {
	return e.message
}

// NewInvalidRequestError creates a 400 error with message.
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// WriteError maps err to a status code and writes the JSON error body.
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	if he.status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err, "status", he.status)
	} else {
		log.Debug("Request rejected", "error", err, "status", he.status)
	}
	writeJSON(w, he.status, ErrorResponse{Error: he.message, Code: he.code})
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, player.ErrNotFound),
		errors.Is(err, history.ErrNotFound),
		errors.Is(err, session.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, CodeNotFound, err.Error()}

	case errors.Is(err, player.ErrDuplicateName):
		return &httpError{http.StatusConflict, CodeDuplicateName, err.Error()}

	case errors.Is(err, match.ErrMatchInProgress),
		errors.Is(err, match.ErrNotReady),
		errors.Is(err, match.ErrNotStarted),
		errors.Is(err, match.ErrMatchComplete),
		errors.Is(err, match.ErrDuplicateParticipant),
		errors.Is(err, session.ErrNotComplete),
		errors.Is(err, session.ErrNothingToSubmit):
		return &httpError{http.StatusConflict, CodeConflict, err.Error()}

	case errors.Is(err, match.ErrInvalidInput):
		return &httpError{http.StatusUnprocessableEntity, CodeInvalidInput, err.Error()}

	case errors.Is(err, player.ErrInvalidName),
		errors.Is(err, player.ErrNameTooLong),
		errors.Is(err, match.ErrInvalidTarget),
		errors.Is(err, match.ErrInvalidPoints),
		errors.Is(err, match.ErrInvalidSide),
		errors.Is(err, match.ErrInvalidType),
		errors.Is(err, match.ErrInvalidParticipant):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, err.Error()}

	case errors.Is(err, session.ErrPersistenceFailure):
		return &httpError{http.StatusServiceUnavailable, CodePersistenceFailure, err.Error()}

	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}
