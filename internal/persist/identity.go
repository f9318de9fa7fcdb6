// Package persist provides the durable identity mapping (player ID →
// display name) behind a two-method contract, so the core never knows
// which medium is underneath.
package persist

import "context"

// Store is the identity persistence gateway. LoadAll is called once at
// startup; Save is called on each offline transition. Save failures are
// logged by the caller and never propagated to clients — the in-memory
// state stays authoritative regardless.
type Store interface {
	LoadAll(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, playerID, username string) error
}
