package cache

import (
	"context"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	basecache "github.com/riskibarqy/tennis-ranking/internal/platform/cache"
)

const (
	playerKeyPrefix = "player:"
	playerListKey   = playerKeyPrefix + "list"
	playerNameKey   = playerKeyPrefix + "name:"
)

// PlayerRepository caches roster reads in front of another repository. Any
// write drops every cached roster entry, since one write can move every rank.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[any]
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store[any]) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

type cachedPlayerByName struct {
	value  player.Player
	exists bool
}

func (r *PlayerRepository) FindAll(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) FindByLastName(ctx context.Context, lastName string) (player.Player, bool, error) {
	key := playerNameKey + player.NormalizeLastName(lastName)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.FindByLastName(ctx, lastName)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByName{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByName)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) (player.Player, error) {
	defer r.invalidate(ctx)
	return r.next.Insert(ctx, p)
}

func (r *PlayerRepository) Save(ctx context.Context, p player.Player) (player.Player, error) {
	defer r.invalidate(ctx)
	return r.next.Save(ctx, p)
}

func (r *PlayerRepository) SaveAll(ctx context.Context, players []player.Player) ([]player.Player, error) {
	defer r.invalidate(ctx)
	return r.next.SaveAll(ctx, players)
}

func (r *PlayerRepository) Delete(ctx context.Context, p player.Player) error {
	defer r.invalidate(ctx)
	return r.next.Delete(ctx, p)
}

func (r *PlayerRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
}
