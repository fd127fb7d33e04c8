// Package ranking recomputes roster positions from points.
//
// A ranking pass always rebuilds the whole roster: players are ordered by
// points descending and receive positions 1..N. Ties keep the previous
// relative order (lower previous rank first), then fall back to the
// case-insensitive last name and finally the store id, so a pass is
// deterministic and applying it twice yields the same ranks.
package ranking

import (
	"sort"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
)

// Recompute returns a copy of players ordered by points descending with
// positions reassigned. Only Rank differs from the input; the input slice is
// left untouched.
func Recompute(players []player.Player) []player.Player {
	out := append([]player.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i], out[j])
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}

// SortByRank returns a copy of players ordered by ascending rank position.
func SortByRank(players []player.Player) []player.Player {
	out := append([]player.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// IsContiguous reports whether ranks form exactly 1..N without gaps or repeats.
func IsContiguous(players []player.Player) bool {
	seen := make([]bool, len(players)+1)
	for _, p := range players {
		if p.Rank < 1 || p.Rank > len(players) || seen[p.Rank] {
			return false
		}
		seen[p.Rank] = true
	}

	return true
}

// Changed returns the players of next whose rank differs from the one held
// in prev, matched by id.
func Changed(prev, next []player.Player) []player.Player {
	rankByID := make(map[int64]int, len(prev))
	for _, p := range prev {
		rankByID[p.ID] = p.Rank
	}

	out := make([]player.Player, 0, len(next))
	for _, p := range next {
		if old, ok := rankByID[p.ID]; ok && old == p.Rank {
			continue
		}
		out = append(out, p)
	}

	return out
}

func ranksBefore(a, b player.Player) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	if an, bn := player.NormalizeLastName(a.LastName), player.NormalizeLastName(b.LastName); an != bn {
		return an < bn
	}
	return a.ID < b.ID
}
