package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/riskibarqy/tennis-ranking/internal/domain/ranking"
	"github.com/riskibarqy/tennis-ranking/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newSeededPlayerService(opts ...PlayerServiceOption) (*PlayerService, *memory.PlayerRepository) {
	repo := memory.NewPlayerRepository(memory.SeedPlayers())
	opts = append([]PlayerServiceOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewPlayerService(repo, logging.NewNop(), opts...), repo
}

func rosterNames(players []player.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, fmt.Sprintf("%s#%d", p.LastName, p.Rank))
	}
	return out
}

func assertRoster(t *testing.T, got []player.Player, want ...string) {
	t.Helper()

	names := rosterNames(got)
	if len(names) != len(want) {
		t.Fatalf("unexpected roster size: got=%v want=%v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected roster: got=%v want=%v", names, want)
		}
	}
}

func TestPlayerService_ListPlayers_OrderedByRank(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	got, err := service.ListPlayers(t.Context())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	assertRoster(t, got, "Nadal#1", "Djokovic#2", "Federer#3", "Murray#4")
}

func TestPlayerService_GetByLastName(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	got, err := service.GetByLastName(t.Context(), "djokovic")
	if err != nil {
		t.Fatalf("get by last name: %v", err)
	}
	if got.FirstName != "Novak" || got.Rank != 2 || got.Points != 4000 {
		t.Fatalf("unexpected player: %+v", got)
	}

	_, err = service.GetByLastName(t.Context(), "doe")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Player with last name doe could not be found." {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	_, err = service.GetByLastName(t.Context(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestPlayerService_Create_RanksNewcomerByPoints(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	created, err := service.Create(t.Context(), player.Candidate{
		FirstName: "Carlos",
		LastName:  "Alcaraz",
		BirthDate: time.Date(2003, time.May, 5, 0, 0, 0, 0, time.UTC),
		Points:    4500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Rank != 2 {
		t.Fatalf("expected Alcaraz at rank 2, got %d", created.Rank)
	}

	got, err := service.ListPlayers(t.Context())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	assertRoster(t, got, "Nadal#1", "Alcaraz#2", "Djokovic#3", "Federer#4", "Murray#5")
}

func TestPlayerService_Create_DuplicateLeavesRosterUntouched(t *testing.T) {
	t.Parallel()

	service, repo := newSeededPlayerService()

	_, err := service.Create(t.Context(), player.Candidate{
		FirstName: "Someone",
		LastName:  "nadal",
		BirthDate: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		Points:    10,
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err.Error() != "Player with last name nadal already exists." {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	all, _ := repo.FindAll(context.Background())
	if len(all) != 4 {
		t.Fatalf("expected roster of 4, got %d", len(all))
	}
}

func TestPlayerService_Create_InvalidCandidate(t *testing.T) {
	t.Parallel()

	service, repo := newSeededPlayerService()

	tests := []struct {
		name      string
		candidate player.Candidate
		cause     error
	}{
		{
			name:      "future birth date",
			candidate: player.Candidate{FirstName: "Future", LastName: "Kid", BirthDate: fixedNow.AddDate(0, 0, 1), Points: 1},
			cause:     player.ErrBirthDateInFuture,
		},
		{
			name:      "negative points",
			candidate: player.Candidate{FirstName: "Minus", LastName: "Points", BirthDate: fixedNow.AddDate(-20, 0, 0), Points: -1},
			cause:     player.ErrNegativePoints,
		},
		{
			name:      "missing last name",
			candidate: player.Candidate{FirstName: "No", BirthDate: fixedNow.AddDate(-20, 0, 0)},
			cause:     player.ErrLastNameRequired,
		},
	}

	for _, tc := range tests {
		_, err := service.Create(t.Context(), tc.candidate)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
		if want := tc.cause.Error(); err.Error() != "invalid input: "+want {
			t.Fatalf("%s: unexpected message %q", tc.name, err.Error())
		}
	}

	all, _ := repo.FindAll(context.Background())
	if len(all) != 4 {
		t.Fatalf("expected roster of 4, got %d", len(all))
	}
}

func TestPlayerService_Update_DropsPlayerDownTheRanking(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	updated, err := service.Update(t.Context(), player.Candidate{
		FirstName: "Rafael",
		LastName:  "NADAL",
		BirthDate: time.Date(1986, time.June, 3, 0, 0, 0, 0, time.UTC),
		Points:    1000,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rank != 4 || updated.Points != 1000 || updated.LastName != "Nadal" {
		t.Fatalf("unexpected updated player: %+v", updated)
	}

	got, _ := service.ListPlayers(t.Context())
	assertRoster(t, got, "Djokovic#1", "Federer#2", "Murray#3", "Nadal#4")
}

func TestPlayerService_Update_UnknownPlayer(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	_, err := service.Update(t.Context(), player.Candidate{
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		Points:    100,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerService_Delete_ClosesRankGap(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	if err := service.Delete(t.Context(), "Djokovic"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := service.ListPlayers(t.Context())
	assertRoster(t, got, "Nadal#1", "Federer#2", "Murray#3")

	_, err := service.GetByLastName(t.Context(), "Djokovic")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := service.Delete(t.Context(), "Djokovic"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPlayerService_ConcurrentCreatesKeepRanksContiguous(t *testing.T) {
	t.Parallel()

	service, _ := newSeededPlayerService()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Create(context.Background(), player.Candidate{
				FirstName: "Player",
				LastName:  fmt.Sprintf("Challenger%02d", i),
				BirthDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
				Points:    (i % 7) * 900,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	got, err := service.ListPlayers(t.Context())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(got) != workers+4 {
		t.Fatalf("expected %d players, got %d", workers+4, len(got))
	}
	if !ranking.IsContiguous(got) {
		t.Fatalf("ranks are not contiguous: %v", rosterNames(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Points > got[i-1].Points {
			t.Fatalf("points increase at position %d: %v", i+1, rosterNames(got))
		}
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	passes [][2]int
}

func (o *recordingObserver) ObserveRankingPass(_ context.Context, rosterSize, changed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes = append(o.passes, [2]int{rosterSize, changed})
}

func TestPlayerService_NotifiesRankingObserver(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	service, _ := newSeededPlayerService(WithRankingObserver(observer))

	_, err := service.Create(t.Context(), player.Candidate{
		FirstName: "Carlos",
		LastName:  "Alcaraz",
		BirthDate: time.Date(2003, time.May, 5, 0, 0, 0, 0, time.UTC),
		Points:    4500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(observer.passes) != 1 {
		t.Fatalf("expected one ranking pass, got %d", len(observer.passes))
	}
	// Alcaraz leaves the placeholder rank; Djokovic, Federer and Murray move down.
	if got := observer.passes[0]; got != [2]int{5, 4} {
		t.Fatalf("unexpected pass: %v", got)
	}
}
