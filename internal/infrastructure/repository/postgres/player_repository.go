package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	qb "github.com/riskibarqy/tennis-ranking/internal/platform/querybuilder"
)

const playersTable = "players"

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"first_name",
	"last_name",
	"birth_date",
	"points",
	"rank",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) FindAll(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		OrderBy("rank", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

func (r *PlayerRepository) FindByLastName(ctx context.Context, lastName string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersTable).
		Where(qb.EqFold("last_name", player.NormalizeLastName(lastName))).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by last name query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by last name: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) (player.Player, error) {
	insert, err := qb.InsertModel(playersTable, playerWriteModelFrom(p))
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}
	query, args, err := insert.Returning("id").ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&p.ID); err != nil {
		if isUniqueViolation(err) {
			return player.Player{}, duplicateLastName(p.LastName, err)
		}
		return player.Player{}, fmt.Errorf("insert player %q: %w", p.LastName, err)
	}

	return p, nil
}

func (r *PlayerRepository) Save(ctx context.Context, p player.Player) (player.Player, error) {
	if err := updatePlayer(ctx, r.db, p); err != nil {
		return player.Player{}, err
	}
	return p, nil
}

// SaveAll writes every row in a single transaction so readers never observe a
// half-applied ranking pass.
func (r *PlayerRepository) SaveAll(ctx context.Context, players []player.Player) ([]player.Player, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx save players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range players {
		if err := updatePlayer(ctx, tx, p); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save players tx: %w", err)
	}

	return append([]player.Player(nil), players...), nil
}

func (r *PlayerRepository) Delete(ctx context.Context, p player.Player) error {
	query, args, err := qb.DeleteFrom(playersTable).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete player id=%d: %w", p.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete player id=%d: no row deleted", p.ID)
	}

	return nil
}

func updatePlayer(ctx context.Context, exec sqlx.ExecerContext, p player.Player) error {
	query, args, err := qb.Update(playersTable).
		SetModel(playerWriteModelFrom(p)).
		SetNow("updated_at").
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateLastName(p.LastName, err)
		}
		return fmt.Errorf("update player id=%d: %w", p.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update player id=%d: no row updated", p.ID)
	}

	return nil
}

// duplicateLastName keeps the driver error as secondary detail while exposing
// player.ErrDuplicateLastName to errors.Is.
func duplicateLastName(lastName string, cause error) error {
	return crerr.WithSecondaryError(
		crerr.Wrapf(player.ErrDuplicateLastName, "store player %q", lastName),
		cause,
	)
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		BirthDate: player.DateOnly(row.BirthDate),
		Points:    row.Points,
		Rank:      row.Rank,
	}
}
