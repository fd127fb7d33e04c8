package player

import (
	"errors"
	"strings"
	"time"
)

// PlaceholderRank is stored for a freshly inserted player until the next
// ranking pass assigns the real position. It exceeds any possible roster size.
const PlaceholderRank = 999999999

var (
	ErrLastNameRequired  = errors.New("last name is mandatory")
	ErrFirstNameRequired = errors.New("first name is mandatory")
	ErrBirthDateRequired = errors.New("birth date is mandatory")
	ErrBirthDateInFuture = errors.New("birth date must be in the past or present")
	ErrNegativePoints    = errors.New("points must be positive or zero")
	ErrInvalidRank       = errors.New("rank position must be strictly positive")

	// ErrDuplicateLastName is reported by stores enforcing last name uniqueness.
	ErrDuplicateLastName = errors.New("last name already taken")
)

// Player is one ranked competitor of the roster.
type Player struct {
	ID        int64
	FirstName string
	LastName  string
	BirthDate time.Time
	Points    int
	Rank      int
}

func (p Player) Validate(now time.Time) error {
	if err := validateFields(p.FirstName, p.LastName, p.BirthDate, p.Points, now); err != nil {
		return err
	}
	if p.Rank <= 0 {
		return ErrInvalidRank
	}

	return nil
}

// Candidate carries the client-supplied fields of a player to register or update.
type Candidate struct {
	FirstName string
	LastName  string
	BirthDate time.Time
	Points    int
}

func (c Candidate) Validate(now time.Time) error {
	return validateFields(c.FirstName, c.LastName, c.BirthDate, c.Points, now)
}

// ToPlayer builds an unsaved player carrying the given rank.
func (c Candidate) ToPlayer(rank int) Player {
	return Player{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		BirthDate: DateOnly(c.BirthDate),
		Points:    c.Points,
		Rank:      rank,
	}
}

// NormalizeLastName returns the comparison key used for case-insensitive lookups.
func NormalizeLastName(lastName string) string {
	return strings.ToLower(strings.TrimSpace(lastName))
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateFields(firstName, lastName string, birthDate time.Time, points int, now time.Time) error {
	if strings.TrimSpace(lastName) == "" {
		return ErrLastNameRequired
	}
	if strings.TrimSpace(firstName) == "" {
		return ErrFirstNameRequired
	}
	if birthDate.IsZero() {
		return ErrBirthDateRequired
	}
	if DateOnly(birthDate).After(DateOnly(now)) {
		return ErrBirthDateInFuture
	}
	if points < 0 {
		return ErrNegativePoints
	}

	return nil
}
