package engine

// Reconcile applies a remote snapshot against the locally cached one using
// the version-ordering rule: the remote state wins by wholesale replacement
// only when its version is strictly newer, never by field-by-field merging.
// When the remote snapshot is stale or concurrent, the local game is kept
// and ErrStaleVersion tells the caller the remote participant must refetch.
func Reconcile(local, remote *Game) (*Game, error) {
	if remote == nil {
		return local, nil
	}
	if local == nil {
		return remote.Clone(), nil
	}
	if remote.Version > local.Version {
		return remote.Clone(), nil
	}
	return local, ErrStaleVersion
}
