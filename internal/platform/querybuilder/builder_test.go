package querybuilder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "last_name").
		From("players").
		Where(EqFold("last_name", "Nadal"), Eq("points", 5000)).
		OrderBy("rank", "id").
		Limit(10).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT id, last_name FROM players WHERE lower(last_name) = lower($1) AND points = $2 ORDER BY rank, id LIMIT 10", query)
	require.Equal(t, []any{"Nadal", 5000}, args)
}

func TestSelectBuilder_RequiresColumnsAndTable(t *testing.T) {
	if _, _, err := Select().From("players").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("first_name", "last_name").
		Values("Rafael", "Nadal").
		Values("Roger", "Federer").
		Returning("id").
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO players (first_name, last_name) VALUES ($1, $2), ($3, $4) RETURNING id", query)
	require.Equal(t, []any{"Rafael", "Nadal", "Roger", "Federer"}, args)

	_, _, err = InsertInto("players").Columns("first_name", "last_name").Values("Andy").ToSQL()
	require.Error(t, err)
}

type modelRow struct {
	LastName string `db:"last_name"`
	Points   int    `db:"points,omitempty"`
	internal string
	Skipped  string `db:"-"`
	Untagged string
}

func TestInsertModel(t *testing.T) {
	b, err := InsertModel("players", &modelRow{LastName: "Murray", Points: 2000, internal: "x", Skipped: "y", Untagged: "z"})
	require.NoError(t, err)

	query, args, err := b.Returning("id").ToSQL()
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO players (last_name, points) VALUES ($1, $2) RETURNING id", query)
	require.Equal(t, []any{"Murray", 2000}, args)
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	var nilRow *modelRow
	for _, model := range []any{nilRow, 42, struct{ Name string }{Name: "x"}} {
		if _, err := InsertModel("players", model); err == nil {
			t.Fatalf("expected error for %#v", model)
		}
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("players").
		Set("rank", 2).
		SetNow("updated_at").
		Where(Eq("id", int64(7))).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "UPDATE players SET rank = $1, updated_at = NOW() WHERE id = $2", query)
	require.Equal(t, []any{2, int64(7)}, args)
}

func TestUpdateBuilder_SetModel(t *testing.T) {
	born := time.Date(1987, time.May, 22, 0, 0, 0, 0, time.UTC)
	query, args, err := Update("players").
		SetModel(struct {
			LastName  string    `db:"last_name"`
			BirthDate time.Time `db:"birth_date"`
		}{LastName: "Djokovic", BirthDate: born}).
		SetNow("updated_at").
		Where(Eq("id", int64(2))).
		Returning("id", "rank").
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "UPDATE players SET last_name = $1, birth_date = $2, updated_at = NOW() WHERE id = $3 RETURNING id, rank", query)
	require.Equal(t, []any{"Djokovic", born, int64(2)}, args)
}

func TestUpdateBuilder_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		builder *UpdateBuilder
	}{
		{name: "no sets", builder: Update("players").Where(Eq("id", 1))},
		{name: "no conditions", builder: Update("players").Set("rank", 1)},
		{name: "bad model", builder: Update("players").SetModel("nope").Where(Eq("id", 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := tt.builder.ToSQL(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("players").
		Where(Eq("id", int64(2))).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "DELETE FROM players WHERE id = $1", query)
	require.Equal(t, []any{int64(2)}, args)

	if _, _, err := DeleteFrom("players").ToSQL(); err == nil {
		t.Fatalf("expected unconditional delete to be rejected")
	}
}
