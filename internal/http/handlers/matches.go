package handlers

import (
	"net/http"

	"github.com/mauv0809/shuttle-ladder/internal/history"
)

func ListMatchesHandler(matches history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			WriteError(w, err)
			return
		}
		records, err := matches.List(r.Context(), limit)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func GetMatchHandler(matches history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := matches.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
