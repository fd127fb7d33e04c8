package memory

import (
	"time"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
)

// SeedPlayers returns the starting roster, already ranked.
func SeedPlayers() []player.Player {
	return []player.Player{
		{
			ID:        1,
			FirstName: "Rafael",
			LastName:  "Nadal",
			BirthDate: time.Date(1986, time.June, 3, 0, 0, 0, 0, time.UTC),
			Points:    5000,
			Rank:      1,
		},
		{
			ID:        2,
			FirstName: "Novak",
			LastName:  "Djokovic",
			BirthDate: time.Date(1987, time.May, 22, 0, 0, 0, 0, time.UTC),
			Points:    4000,
			Rank:      2,
		},
		{
			ID:        3,
			FirstName: "Roger",
			LastName:  "Federer",
			BirthDate: time.Date(1981, time.August, 8, 0, 0, 0, 0, time.UTC),
			Points:    3000,
			Rank:      3,
		},
		{
			ID:        4,
			FirstName: "Andy",
			LastName:  "Murray",
			BirthDate: time.Date(1987, time.May, 15, 0, 0, 0, 0, time.UTC),
			Points:    2000,
			Rank:      4,
		},
	}
}
