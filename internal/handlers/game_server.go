// internal/handlers/game_server.go
package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tlacour/president/internal/engine"
)

// GameServer owns the live game sessions and is the single serializing
// authority for mutating operations: every engine call for a game goes
// through its session lock and is applied against the latest snapshot, so
// two participants racing on the same turn cannot both be accepted.
type GameServer struct {
	Sessions *SessionStore
	Logger   *logrus.Logger

	// Persist durably stores an accepted snapshot; Publish replicates it to
	// the other participants through the sync gateway. Either may be nil
	// (tests, single-node setups).
	Persist func(ctx context.Context, g *engine.Game) error
	Publish func(ctx context.Context, g *engine.Game) error

	// Load resurrects a stored snapshot when no live session exists.
	Load func(ctx context.Context, id uuid.UUID) (*engine.Game, error)

	// Subscribe taps the sync gateway's update stream for a game so
	// snapshots accepted elsewhere reach this node's session.
	Subscribe func(ctx context.Context, id uuid.UUID) (<-chan *engine.Game, error)

	// OnFinished is invoked once per game, right after the snapshot that
	// made it terminal was accepted.
	OnFinished func(ctx context.Context, g *engine.Game)
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		Sessions: NewSessionStore(),
		Logger:   logger,
	}
}

// GameSession pairs the authoritative snapshot of one game with the
// connections that want to hear about it.
type GameSession struct {
	mu    sync.Mutex
	game  *engine.Game
	conns map[uuid.UUID]*playerConn
}

func newGameSession(g *engine.Game) *GameSession {
	return &GameSession{
		game:  g,
		conns: make(map[uuid.UUID]*playerConn),
	}
}

// Game returns the session's current snapshot.
func (s *GameSession) Game() *engine.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Apply runs op against the session's latest snapshot while holding the
// session lock, then persists, publishes and broadcasts the result. On
// rejection the snapshot is untouched and the engine's reason is returned.
func (gs *GameServer) Apply(ctx context.Context, s *GameSession, op func(*engine.Game) (*engine.Game, error)) (*engine.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := op(s.game)
	if err != nil {
		return s.game, err
	}

	if gs.Persist != nil {
		if err := gs.Persist(ctx, next); err != nil {
			gs.Logger.WithError(err).Errorf("persist failed for game %s", next.ID)
			return s.game, err
		}
	}

	// The durable store has accepted this version, so it is the snapshot of
	// record from here on: rolling the session back would leave every retry
	// recomputing a version the store already holds and rejects as stale.
	justFinished := next.Finished() && !s.game.Finished()
	s.game = next

	if gs.Publish != nil {
		if err := gs.Publish(ctx, next); err != nil {
			gs.Logger.WithError(err).Warnf("publish failed for game %s; replication catches up on the next accepted snapshot", next.ID)
		}
	}

	s.broadcastLocked(next)
	if justFinished {
		if gs.OnFinished != nil {
			gs.OnFinished(ctx, next)
		}
		gs.Sessions.Delete(next.ID)
	}
	return next, nil
}

// sessionFor returns the live session for a game, resurrecting it from the
// durable store when the server restarted with games still in flight.
func (gs *GameServer) sessionFor(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	if s, ok := gs.Sessions.Get(id); ok {
		return s, nil
	}
	if gs.Load == nil {
		return nil, errGameNotFound
	}
	g, err := gs.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s := gs.Sessions.Add(g)
	gs.watchRemote(s)
	return s, nil
}

// watchRemote folds snapshots published by other nodes into the session for
// as long as the process lives.
func (gs *GameServer) watchRemote(s *GameSession) {
	if gs.Subscribe == nil {
		return
	}
	id := s.Game().ID
	go func() {
		updates, err := gs.Subscribe(context.Background(), id)
		if err != nil {
			gs.Logger.WithError(err).Warnf("remote subscription failed for game %s", id)
			return
		}
		for remote := range updates {
			gs.ApplyRemote(s, remote)
		}
	}()
}

// ApplyRemote folds a snapshot received from the sync channel into the
// session. Replacement is wholesale and only when the remote version is
// newer; stale remotes are dropped.
func (gs *GameServer) ApplyRemote(s *GameSession, remote *engine.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := engine.Reconcile(s.game, remote)
	if err != nil {
		return
	}
	s.game = merged
	s.broadcastLocked(merged)
}

// SessionStore tracks live sessions by game id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*GameSession),
	}
}

func (st *SessionStore) Add(g *engine.Game) *GameSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := newGameSession(g)
	st.sessions[g.ID] = s
	return s
}

func (st *SessionStore) Get(id uuid.UUID) (*GameSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, exists := st.sessions[id]
	return s, exists
}

func (st *SessionStore) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
