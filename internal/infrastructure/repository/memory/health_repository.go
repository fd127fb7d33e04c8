package memory

import "context"

// HealthRepository reports a single always-live session for the in-process store.
type HealthRepository struct{}

func NewHealthRepository() *HealthRepository {
	return &HealthRepository{}
}

func (r *HealthRepository) CountApplicationConnections(_ context.Context) (int64, error) {
	return 1, nil
}
