package health

import "context"

// Repository probes the backing store for live application sessions.
type Repository interface {
	CountApplicationConnections(ctx context.Context) (int64, error)
}
