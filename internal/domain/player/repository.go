package player

import "context"

// Repository describes roster persistence needs from use cases.
type Repository interface {
	FindAll(ctx context.Context) ([]Player, error)
	// FindByLastName matches the last name case-insensitively.
	FindByLastName(ctx context.Context, lastName string) (Player, bool, error)
	Insert(ctx context.Context, p Player) (Player, error)
	Save(ctx context.Context, p Player) (Player, error)
	// SaveAll persists every player in one unit of work.
	SaveAll(ctx context.Context, players []Player) ([]Player, error)
	Delete(ctx context.Context, p Player) error
}
