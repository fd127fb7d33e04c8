package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
)

// BootstrapSeed inserts players into an empty roster inside one transaction.
// A roster that already holds rows is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, players []player.Player) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players`); err != nil {
		return 0, fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted := 0
	for _, p := range players {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (first_name, last_name, birth_date, points, rank)
VALUES (:first_name, :last_name, :birth_date, :points, :rank)
ON CONFLICT ((lower(last_name))) DO NOTHING`, map[string]any{
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"birth_date": p.BirthDate,
			"points":     p.Points,
			"rank":       p.Rank,
		})
		if err != nil {
			return 0, fmt.Errorf("bind seed player %s query: %w", p.LastName, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		res, err := tx.ExecContext(ctx, sqlQuery, args...)
		if err != nil {
			return 0, fmt.Errorf("seed player %s: %w", p.LastName, err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			inserted += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	return inserted, nil
}
