package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/riskibarqy/tennis-ranking/internal/domain/ranking"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
)

// RankingObserver is notified after every persisted ranking pass.
type RankingObserver interface {
	ObserveRankingPass(ctx context.Context, rosterSize, changed int)
}

type PlayerServiceOption func(*PlayerService)

// WithClock overrides the clock used for birth date validation.
func WithClock(now func() time.Time) PlayerServiceOption {
	return func(s *PlayerService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRankingObserver(observer RankingObserver) PlayerServiceOption {
	return func(s *PlayerService) {
		s.observer = observer
	}
}

type PlayerService struct {
	playerRepo player.Repository
	logger     *logging.Logger
	observer   RankingObserver
	now        func() time.Time

	// mutationMu spans read-check through persist-ranks of every mutation
	// issued by this process. Writers in other processes are not covered.
	mutationMu sync.Mutex
}

func NewPlayerService(playerRepo player.Repository, logger *logging.Logger, opts ...PlayerServiceOption) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	s := &PlayerService{
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list players failed", "error", err)
		return nil, dataRetrieval("list players", err)
	}

	return ranking.SortByRank(players), nil
}

func (s *PlayerService) GetByLastName(ctx context.Context, lastName string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetByLastName")
	defer span.End()

	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, player.ErrLastNameRequired)
	}

	item, err := s.findExisting(ctx, lastName)
	if err != nil {
		return player.Player{}, err
	}

	return item, nil
}

func (s *PlayerService) Create(ctx context.Context, candidate player.Candidate) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	if err := candidate.Validate(s.now()); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	lastName := strings.TrimSpace(candidate.LastName)

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	_, exists, err := s.playerRepo.FindByLastName(ctx, lastName)
	if err != nil {
		s.logger.ErrorContext(ctx, "lookup player before create failed", "last_name", lastName, "error", err)
		return player.Player{}, dataRetrieval("find player by last name", err)
	}
	if exists {
		s.logger.WarnContext(ctx, "player to create already exists", "last_name", lastName)
		return player.Player{}, &PlayerAlreadyExistsError{LastName: lastName}
	}

	if _, err := s.playerRepo.Insert(ctx, candidate.ToPlayer(player.PlaceholderRank)); err != nil {
		if errors.Is(err, player.ErrDuplicateLastName) {
			s.logger.WarnContext(ctx, "player to create inserted concurrently", "last_name", lastName)
			return player.Player{}, &PlayerAlreadyExistsError{LastName: lastName}
		}
		s.logger.ErrorContext(ctx, "insert player failed", "last_name", lastName, "error", err)
		return player.Player{}, dataRetrieval("insert player", err)
	}

	if err := s.rerank(ctx); err != nil {
		return player.Player{}, err
	}

	created, err := s.findExisting(ctx, lastName)
	if err != nil {
		return player.Player{}, err
	}

	s.logger.InfoContext(ctx, "player created", "last_name", created.LastName, "rank", created.Rank, "points", created.Points)
	return created, nil
}

// Update applies the candidate's first name, birth date and points to the
// player sharing its last name. The last name itself is the lookup key and
// cannot be changed here.
func (s *PlayerService) Update(ctx context.Context, candidate player.Candidate) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	if err := candidate.Validate(s.now()); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	lastName := strings.TrimSpace(candidate.LastName)

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	existing, err := s.findExisting(ctx, lastName)
	if err != nil {
		return player.Player{}, err
	}

	existing.FirstName = strings.TrimSpace(candidate.FirstName)
	existing.BirthDate = player.DateOnly(candidate.BirthDate)
	existing.Points = candidate.Points
	if _, err := s.playerRepo.Save(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "save player failed", "last_name", lastName, "error", err)
		return player.Player{}, dataRetrieval("save player", err)
	}

	if err := s.rerank(ctx); err != nil {
		return player.Player{}, err
	}

	updated, err := s.findExisting(ctx, lastName)
	if err != nil {
		return player.Player{}, err
	}

	s.logger.InfoContext(ctx, "player updated", "last_name", updated.LastName, "rank", updated.Rank, "points", updated.Points)
	return updated, nil
}

func (s *PlayerService) Delete(ctx context.Context, lastName string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return fmt.Errorf("%w: %v", ErrInvalidInput, player.ErrLastNameRequired)
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	existing, err := s.findExisting(ctx, lastName)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "delete player failed", "last_name", lastName, "error", err)
		return dataRetrieval("delete player", err)
	}

	if err := s.rerank(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "player deleted", "last_name", existing.LastName)
	return nil
}

func (s *PlayerService) findExisting(ctx context.Context, lastName string) (player.Player, error) {
	item, exists, err := s.playerRepo.FindByLastName(ctx, lastName)
	if err != nil {
		s.logger.ErrorContext(ctx, "find player by last name failed", "last_name", lastName, "error", err)
		return player.Player{}, dataRetrieval("find player by last name", err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "player not found", "last_name", lastName)
		return player.Player{}, &PlayerNotFoundError{LastName: lastName}
	}

	return item, nil
}

// rerank runs one ranking pass over the current roster and persists every
// player's position.
func (s *PlayerService) rerank(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.rerank")
	defer span.End()

	current, err := s.playerRepo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "load roster for ranking failed", "error", err)
		return dataRetrieval("list players for ranking", err)
	}

	ranked := ranking.Recompute(current)
	changed := ranking.Changed(current, ranked)
	if _, err := s.playerRepo.SaveAll(ctx, ranked); err != nil {
		s.logger.ErrorContext(ctx, "persist ranking failed", "roster_size", len(ranked), "error", err)
		return dataRetrieval("save ranking", err)
	}

	s.logger.DebugContext(ctx, "ranking pass persisted", "roster_size", len(ranked), "changed", len(changed))
	if s.observer != nil {
		s.observer.ObserveRankingPass(ctx, len(ranked), len(changed))
	}

	return nil
}
