package engine

import "errors"

// Business-rule violations. None of these are fatal: the offending operation
// returns the snapshot unchanged alongside the reason, and the host decides
// how to surface it.
var (
	// ErrMissingHost is reported when a game is created without a host
	// player. A lobby game is still returned so the caller can decide
	// whether to abort.
	ErrMissingHost = errors.New("game created without a host")

	// ErrGameAlreadyLaunched rejects joins and re-launches once the deal
	// has happened.
	ErrGameAlreadyLaunched = errors.New("game already launched")

	// ErrGameNotLaunched rejects play attempts against a lobby game.
	ErrGameNotLaunched = errors.New("game not launched")

	// ErrGameFinished rejects mutating operations against a terminal game.
	ErrGameFinished = errors.New("game finished")

	// ErrDuplicatePlayer rejects a join for an id already seated.
	ErrDuplicatePlayer = errors.New("player already in game")

	// ErrInvalidSet rejects an empty card set or one mixing ranks.
	ErrInvalidSet = errors.New("cards do not form a valid set")

	// ErrHandMismatch rejects a play naming a card the current player does
	// not hold.
	ErrHandMismatch = errors.New("card set not in player's hand")

	// ErrCannotBeat rejects a play that does not outrank the table.
	ErrCannotBeat = errors.New("card set does not beat the table")

	// ErrStaleVersion is surfaced by the reconciliation and publish layers
	// when a snapshot was computed from an outdated version. The caller
	// must refetch and retry.
	ErrStaleVersion = errors.New("snapshot version is stale")
)
