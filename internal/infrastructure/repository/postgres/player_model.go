package postgres

import (
	"time"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
)

type playerTableModel struct {
	ID        int64     `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	BirthDate time.Time `db:"birth_date"`
	Points    int       `db:"points"`
	Rank      int       `db:"rank"`
}

// playerWriteModel holds the columns written on insert and update.
type playerWriteModel struct {
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	BirthDate time.Time `db:"birth_date"`
	Points    int       `db:"points"`
	Rank      int       `db:"rank"`
}

func playerWriteModelFrom(p player.Player) playerWriteModel {
	return playerWriteModel{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		Points:    p.Points,
		Rank:      p.Rank,
	}
}
