// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tlacour/president/internal/engine"
	"github.com/tlacour/president/internal/middleware"
	"github.com/tlacour/president/internal/models"
)

// GameMessage is the structure for incoming WebSocket messages.
//
// Types: "join" (optional name), "launch", "play" (cards), "skip",
// "state" (request a private resync).
type GameMessage struct {
	Type  string        `json:"type"`
	Name  string        `json:"name,omitempty"`
	Cards []models.Card `json:"cards,omitempty"`
}

// GameEvent is the structure for outgoing WebSocket messages. Every accepted
// operation broadcasts a "game_state" event carrying the full new snapshot;
// rejections go back to the offending client only as "error" events.
type GameEvent struct {
	Type   string       `json:"type"`
	Reason string       `json:"reason,omitempty"`
	Game   *engine.Game `json:"game,omitempty"`
}

// playerConn is one participant's registered connection. Outbound events are
// funneled through a channel so broadcasts never block on a slow socket.
type playerConn struct {
	userID uuid.UUID
	out    chan GameEvent
	cancel context.CancelFunc
}

// broadcastLocked pushes the snapshot to every registered connection. The
// session lock must be held. Slow consumers are skipped; they resync on
// their next message.
func (s *GameSession) broadcastLocked(g *engine.Game) {
	ev := GameEvent{Type: "game_state", Game: g}
	for _, pc := range s.conns {
		select {
		case pc.out <- ev:
		default:
		}
	}
}

func (s *GameSession) addConn(pc *playerConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.conns[pc.userID]; ok {
		old.cancel()
	}
	s.conns[pc.userID] = pc
}

func (s *GameSession) removeConn(pc *playerConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[pc.userID] == pc {
		delete(s.conns, pc.userID)
	}
}

// GameWSHandler upgrades the HTTP connection to WebSocket for a specific
// game. It authenticates the user (creating an ephemeral guest if needed),
// registers the connection, sends an initial state sync, and then handles
// incoming messages until the client disconnects.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameIDStr := strings.TrimPrefix(r.URL.Path, "/game/ws/")
		gameID, err := uuid.Parse(strings.Split(gameIDStr, "/")[0])
		if err != nil {
			http.Error(w, "Invalid game_id format", http.StatusBadRequest)
			return
		}

		session, err := gs.sessionFor(r.Context(), gameID)
		if err != nil {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"president"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "president" {
			c.Close(BadSubprotocolError, "Client must use the 'president' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, gameID.String(), c.Subprotocol())

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("User authentication failed for game %s: %v", gameID, err)
			c.Close(InvalidAuthTokenError, "Authentication failed.")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		pc := &playerConn{
			userID: userID,
			out:    make(chan GameEvent, 16),
			cancel: cancel,
		}
		session.addConn(pc)
		defer session.removeConn(pc)

		go writePump(ctx, c, pc)

		// Initial private sync so a reconnecting client catches up.
		pc.out <- GameEvent{Type: "game_state", Game: session.Game()}

		readErr := gs.readLoop(ctx, c, session, pc)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, gameID.String(), readErr)
	}
}

// writePump drains the connection's outbound channel onto the socket.
func writePump(ctx context.Context, c *websocket.Conn, pc *playerConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-pc.out:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

// readLoop decodes incoming messages and applies them through the session's
// serializing authority. Business-rule rejections are reported privately and
// the loop keeps going; transport errors end the connection.
func (gs *GameServer) readLoop(ctx context.Context, c *websocket.Conn, session *GameSession, pc *playerConn) error {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return err
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			pc.out <- GameEvent{Type: "error", Reason: "malformed message"}
			continue
		}

		if err := gs.handleMessage(ctx, session, pc, msg); err != nil {
			pc.out <- GameEvent{Type: "error", Reason: err.Error()}
		}
	}
}

func (gs *GameServer) handleMessage(ctx context.Context, session *GameSession, pc *playerConn, msg GameMessage) error {
	switch msg.Type {
	case "join":
		name := msg.Name
		if name == "" {
			name = "Guest"
		}
		_, err := gs.Apply(ctx, session, func(g *engine.Game) (*engine.Game, error) {
			return engine.JoinGame(g, &models.Player{ID: pc.userID, Name: name, Hand: models.Hand{}})
		})
		return err

	case "launch":
		_, err := gs.Apply(ctx, session, func(g *engine.Game) (*engine.Game, error) {
			return engine.LaunchGame(g)
		})
		return err

	case "play":
		_, err := gs.Apply(ctx, session, func(g *engine.Game) (*engine.Game, error) {
			if cur := g.CurrentPlayer(); cur == nil || cur.ID != pc.userID {
				return g, errNotYourTurn
			}
			return engine.PlayCardSet(g, msg.Cards)
		})
		return err

	case "skip":
		_, err := gs.Apply(ctx, session, func(g *engine.Game) (*engine.Game, error) {
			if cur := g.CurrentPlayer(); cur == nil || cur.ID != pc.userID {
				return g, errNotYourTurn
			}
			return engine.SkipTurn(g)
		})
		return err

	case "state":
		pc.out <- GameEvent{Type: "game_state", Game: session.Game()}
		return nil

	default:
		return errUnknownMessageType
	}
}
