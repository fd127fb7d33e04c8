package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
)

type PlayerRepository struct {
	mu         sync.RWMutex
	items      map[int64]player.Player
	idByName   map[string]int64
	orders     []int64
	lastIssued int64
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		items:    make(map[int64]player.Player, len(players)),
		idByName: make(map[string]int64, len(players)),
		orders:   make([]int64, 0, len(players)),
	}

	for _, p := range players {
		if p.ID == 0 {
			r.lastIssued++
			p.ID = r.lastIssued
		} else if p.ID > r.lastIssued {
			r.lastIssued = p.ID
		}
		r.items[p.ID] = p
		r.idByName[player.NormalizeLastName(p.LastName)] = p.ID
		r.orders = append(r.orders, p.ID)
	}

	return r
}

func (r *PlayerRepository) FindAll(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *PlayerRepository) FindByLastName(_ context.Context, lastName string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByName[player.NormalizeLastName(lastName)]
	if !ok {
		return player.Player{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *PlayerRepository) Insert(_ context.Context, p player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := player.NormalizeLastName(p.LastName)
	if _, taken := r.idByName[key]; taken {
		return player.Player{}, fmt.Errorf("insert player %q: %w", p.LastName, player.ErrDuplicateLastName)
	}

	r.lastIssued++
	p.ID = r.lastIssued
	r.items[p.ID] = p
	r.idByName[key] = p.ID
	r.orders = append(r.orders, p.ID)

	return p, nil
}

func (r *PlayerRepository) Save(_ context.Context, p player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkWritable(p); err != nil {
		return player.Player{}, err
	}
	r.put(p)

	return p, nil
}

func (r *PlayerRepository) SaveAll(_ context.Context, players []player.Player) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		if err := r.checkWritable(p); err != nil {
			return nil, err
		}
	}
	for _, p := range players {
		r.put(p)
	}

	return append([]player.Player(nil), players...), nil
}

func (r *PlayerRepository) Delete(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[p.ID]
	if !ok {
		return fmt.Errorf("delete player id=%d: not stored", p.ID)
	}

	delete(r.items, p.ID)
	delete(r.idByName, player.NormalizeLastName(existing.LastName))
	for i, id := range r.orders {
		if id == p.ID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return nil
}

func (r *PlayerRepository) checkWritable(p player.Player) error {
	existing, ok := r.items[p.ID]
	if !ok {
		return fmt.Errorf("save player id=%d: not stored", p.ID)
	}
	key := player.NormalizeLastName(p.LastName)
	if key != player.NormalizeLastName(existing.LastName) {
		if _, taken := r.idByName[key]; taken {
			return fmt.Errorf("save player %q: %w", p.LastName, player.ErrDuplicateLastName)
		}
	}
	return nil
}

func (r *PlayerRepository) put(p player.Player) {
	existing := r.items[p.ID]
	delete(r.idByName, player.NormalizeLastName(existing.LastName))
	r.items[p.ID] = p
	r.idByName[player.NormalizeLastName(p.LastName)] = p.ID
}
