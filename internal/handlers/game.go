// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tlacour/president/internal/engine"
	"github.com/tlacour/president/internal/models"
)

type createGameRequest struct {
	Name          string `json:"name"`
	IncludeJokers bool   `json:"includeJokers"`
}

// CreateGameHandler creates a new lobby game hosted by the requesting user
// and returns its first snapshot. Remaining actions (join, launch, play,
// skip) happen over the game WebSocket.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createGameRequest
		if r.Body != nil {
			// An empty body is fine; the host just gets the default name.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		if req.Name == "" {
			req.Name = "Guest"
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		host := &models.Player{ID: userID, Name: req.Name, Hand: models.Hand{}}
		g, err := engine.CreateGame(host)
		if err != nil {
			// ErrMissingHost cannot happen here; anything else is fatal.
			http.Error(w, "error creating game", http.StatusInternalServerError)
			return
		}
		g.IncludeJokers = req.IncludeJokers

		session := gs.Sessions.Add(g)
		gs.watchRemote(session)
		if _, err := gs.Apply(r.Context(), session, func(cur *engine.Game) (*engine.Game, error) {
			return cur, nil
		}); err != nil {
			gs.Sessions.Delete(g.ID)
			http.Error(w, "error persisting game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(session.Game())
	}
}

// GetGameHandler returns the latest snapshot of a game, for clients that
// poll instead of holding a WebSocket.
func GetGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/game/")
		gameID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		session, err := gs.sessionFor(r.Context(), gameID)
		if err != nil {
			if errors.Is(err, errGameNotFound) {
				http.Error(w, "game not found", http.StatusNotFound)
			} else {
				http.Error(w, "error loading game", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session.Game())
	}
}
