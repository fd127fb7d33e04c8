package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/riskibarqy/tennis-ranking/internal/domain/ranking"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
)

const defaultSeedWorkers = 4

// SeedRowError reports one rejected row of a seed file.
type SeedRowError struct {
	Row      int
	LastName string
	Err      error
}

func (e *SeedRowError) Error() string {
	return fmt.Sprintf("seed row %d (%s): %v", e.Row, e.LastName, e.Err)
}

func (e *SeedRowError) Unwrap() error {
	return e.Err
}

// SeedService turns raw seed rows into a ranked starting roster.
type SeedService struct {
	logger  *logging.Logger
	workers int
	now     func() time.Time
}

func NewSeedService(logger *logging.Logger, workers int, now func() time.Time) *SeedService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultSeedWorkers
	}
	if now == nil {
		now = time.Now
	}

	return &SeedService{logger: logger, workers: workers, now: now}
}

// Prepare validates every row on a worker pool, rejects duplicate last names
// and ranks the result. Nothing is returned unless all rows are valid.
func (s *SeedService) Prepare(ctx context.Context, rows []player.Candidate) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeedService.Prepare")
	defer span.End()

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: seed roster is empty", ErrInvalidInput)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	now := s.now()
	validated := make([]player.Player, len(rows))
	var mu sync.Mutex
	var rowErrs []*SeedRowError
	var workers sync.WaitGroup
	var submitErr error
	cancelled := false
	for i, row := range rows {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if err := row.Validate(now); err != nil {
				mu.Lock()
				rowErrs = append(rowErrs, &SeedRowError{Row: i + 1, LastName: row.LastName, Err: err})
				mu.Unlock()
				return
			}
			validated[i] = row.ToPlayer(player.PlaceholderRank)
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit seed row %d to worker pool: %w", i+1, err)
			break
		}
	}
	workers.Wait()

	if cancelled {
		return nil, ctx.Err()
	}
	if submitErr != nil {
		return nil, submitErr
	}

	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		key := player.NormalizeLastName(row.LastName)
		if key == "" {
			continue
		}
		if first, ok := seen[key]; ok {
			rowErrs = append(rowErrs, &SeedRowError{
				Row:      i + 1,
				LastName: row.LastName,
				Err:      fmt.Errorf("%w (first used on row %d)", player.ErrDuplicateLastName, first),
			})
			continue
		}
		seen[key] = i + 1
	}

	if len(rowErrs) > 0 {
		sort.Slice(rowErrs, func(i, j int) bool { return rowErrs[i].Row < rowErrs[j].Row })
		joined := make([]error, 0, len(rowErrs)+1)
		joined = append(joined, ErrInvalidInput)
		for _, rowErr := range rowErrs {
			joined = append(joined, rowErr)
		}
		s.logger.WarnContext(ctx, "seed roster rejected", "rows", len(rows), "invalid_rows", len(rowErrs))
		return nil, errors.Join(joined...)
	}

	ranked := ranking.Recompute(validated)
	s.logger.InfoContext(ctx, "seed roster prepared", "rows", len(ranked))
	return ranked, nil
}
