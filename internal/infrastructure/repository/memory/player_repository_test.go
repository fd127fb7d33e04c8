package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_FindByLastNameIgnoresCase(t *testing.T) {
	t.Parallel()

	repo := NewPlayerRepository(SeedPlayers())

	got, exists, err := repo.FindByLastName(context.Background(), "  nADAL ")
	if err != nil {
		t.Fatalf("find by last name: %v", err)
	}
	if !exists || got.LastName != "Nadal" {
		t.Fatalf("expected Nadal, got exists=%t player=%+v", exists, got)
	}
}

func TestPlayerRepository_InsertAssignsIDAndRejectsDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPlayerRepository(SeedPlayers())

	created, err := repo.Insert(ctx, player.Player{FirstName: "Carlos", LastName: "Alcaraz", Points: 4500, Rank: player.PlaceholderRank})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected id 5, got %d", created.ID)
	}

	_, err = repo.Insert(ctx, player.Player{FirstName: "Someone", LastName: "ALCARAZ"})
	if !errors.Is(err, player.ErrDuplicateLastName) {
		t.Fatalf("expected ErrDuplicateLastName, got %v", err)
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 5 {
		t.Fatalf("expected 5 players, got %d", len(all))
	}
}

func TestPlayerRepository_SaveAllIsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPlayerRepository(SeedPlayers())

	players, _ := repo.FindAll(ctx)
	players[0].Rank = 4
	players = append(players, player.Player{ID: 99, LastName: "Ghost", Rank: 5})

	if _, err := repo.SaveAll(ctx, players); err == nil {
		t.Fatalf("expected error for unknown id")
	}

	nadal, _, _ := repo.FindByLastName(ctx, "nadal")
	if nadal.Rank != 1 {
		t.Fatalf("expected rank untouched after failed bulk write, got %d", nadal.Rank)
	}
}

func TestPlayerRepository_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPlayerRepository(SeedPlayers())

	djokovic, _, _ := repo.FindByLastName(ctx, "Djokovic")
	if err := repo.Delete(ctx, djokovic); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, exists, _ := repo.FindByLastName(ctx, "djokovic"); exists {
		t.Fatalf("expected Djokovic to be gone")
	}
	if err := repo.Delete(ctx, djokovic); err == nil {
		t.Fatalf("expected error deleting twice")
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 players, got %d", len(all))
	}
}

func TestPlayerRepository_SaveAndIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPlayerRepository(SeedPlayers())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	all[0].Points = 1
	again, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 5000, again[0].Points, "callers must not alias stored players")

	murray, exists, err := repo.FindByLastName(ctx, "murray")
	require.NoError(t, err)
	require.True(t, exists)

	murray.Points = 2500
	saved, err := repo.Save(ctx, murray)
	require.NoError(t, err)
	require.Equal(t, murray, saved)

	reloaded, _, err := repo.FindByLastName(ctx, "Murray")
	require.NoError(t, err)
	require.Equal(t, 2500, reloaded.Points)
}
