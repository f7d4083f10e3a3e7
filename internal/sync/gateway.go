// Package sync is the engine's external synchronization channel: it durably
// stores the latest accepted snapshot of each game and broadcasts it to the
// other participants. The engine never calls this package; hosts publish the
// snapshots the engine hands them and feed remote snapshots back through
// engine.Reconcile.
package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tlacour/president/internal/engine"
)

// ErrGameNotFound is returned by Fetch when no snapshot has been published
// for the game yet.
var ErrGameNotFound = errors.New("no snapshot published for game")

// Gateway is the publish/fetch/subscribe contract hosts use to replicate
// engine snapshots. Publish follows a compare-and-set discipline: a snapshot
// is accepted only if its version supersedes the stored one, otherwise
// engine.ErrStaleVersion is returned and the caller must refetch and retry
// its operation against the fresh snapshot.
type Gateway interface {
	Publish(ctx context.Context, g *engine.Game) error
	Fetch(ctx context.Context, gameID uuid.UUID) (*engine.Game, error)
	Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan *engine.Game, error)
}
