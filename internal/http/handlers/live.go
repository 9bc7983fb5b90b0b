package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/session"
)

// LiveMatchResponse is the live match as seen by the scoreboard.
type LiveMatchResponse struct {
	Phase     match.Phase      `json:"phase"`
	Match     match.Snapshot   `json:"match"`
	StartedAt *time.Time       `json:"started_at,omitempty"`
	Pending   *session.Pending `json:"pending,omitempty"`
}

type participantRequest struct {
	PlayerID string `json:"player_id"`
}

type startRequest struct {
	Target    *int       `json:"target"`
	MatchType match.Type `json:"match_type"`
}

// Manual score edits are sent as raw text so that bad input is reported the
// same way it would be from the scoreboard form.
type editScoreRequest struct {
	Player1Points string `json:"player1_points"`
	Player2Points string `json:"player2_points"`
	Target        string `json:"target"`
}

func newLiveMatchResponse(sess *session.Service, state match.State) LiveMatchResponse {
	resp := LiveMatchResponse{
		Phase:   state.Phase(),
		Match:   state.Snapshot(),
		Pending: sess.Pending(),
	}
	if state.Started {
		startedAt := sess.StartedAt()
		resp.StartedAt = &startedAt
	}
	return resp
}

func writeLive(w http.ResponseWriter, sess *session.Service, state match.State, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLiveMatchResponse(sess, state))
}

func LiveMatchHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeLive(w, sess, sess.State(), nil)
	}
}

func AddParticipantHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req participantRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		state, err := sess.AddParticipant(r.Context(), req.PlayerID)
		writeLive(w, sess, state, err)
	}
}

// StartMatchHandler starts the match. A missing target falls back to the
// default target and an empty match type means an official match.
func StartMatchHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		target := sess.DefaultTarget()
		if req.Target != nil {
			target = *req.Target
		}
		if req.MatchType == "" {
			req.MatchType = match.TypeOfficial
		}
		state, err := sess.StartMatch(r.Context(), target, req.MatchType)
		writeLive(w, sess, state, err)
	}
}

// PointHandler handles POST /match/points/{side}/{op}.
func PointHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.PathValue("side"))
		if err != nil {
			WriteError(w, match.ErrInvalidSide)
			return
		}
		side := match.Side(n)

		var state match.State
		switch r.PathValue("op") {
		case "increment":
			state, err = sess.IncrementPoint(r.Context(), side)
		case "decrement":
			state, err = sess.DecrementPoint(r.Context(), side)
		default:
			WriteError(w, NewInvalidRequestError("op must be increment or decrement"))
			return
		}
		writeLive(w, sess, state, err)
	}
}

func EditScoreHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editScoreRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		state, err := sess.EditScore(r.Context(), req.Player1Points, req.Player2Points, req.Target)
		writeLive(w, sess, state, err)
	}
}

func ResetPointsHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := sess.ResetPoints(r.Context())
		writeLive(w, sess, state, err)
	}
}

func EndMatchHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeLive(w, sess, sess.EndMatch(r.Context()), nil)
	}
}

// SubmitMatchHandler records the completed match and returns the stored
// history record.
func SubmitMatchHandler(sess *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := sess.Submit(r.Context(), IsDryRunFromContext(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}
