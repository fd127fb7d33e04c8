package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert player: %w", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "foreign key violation"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(errors.New("pq: relation players does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select player: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestDuplicateLastName(t *testing.T) {
	cause := &pq.Error{Code: "23505"}
	err := duplicateLastName("Nadal", cause)

	if !errors.Is(err, player.ErrDuplicateLastName) {
		t.Fatalf("expected ErrDuplicateLastName, got %v", err)
	}
}

func TestPlayerFromRowTruncatesBirthDate(t *testing.T) {
	row := playerTableModel{
		ID:        3,
		FirstName: "Roger",
		LastName:  "Federer",
		BirthDate: time.Date(1981, time.August, 8, 13, 0, 0, 42, time.FixedZone("CET", 3600)),
		Points:    3000,
		Rank:      3,
	}

	got := playerFromRow(row)
	want := time.Date(1981, time.August, 8, 0, 0, 0, 0, time.UTC)
	if !got.BirthDate.Equal(want) {
		t.Fatalf("expected midnight birth date, got %s", got.BirthDate)
	}
	if got.ID != 3 || got.Rank != 3 || got.LastName != "Federer" {
		t.Fatalf("unexpected player: %+v", got)
	}
}
