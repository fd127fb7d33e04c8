package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tennis-ranking/internal/domain/health"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
)

const healthWelcomeMessage = "Welcome to the tennis ranking service! Active PostgreSQL Sessions: %d"

type HealthService struct {
	healthRepo health.Repository
	logger     *logging.Logger
}

func NewHealthService(healthRepo health.Repository, logger *logging.Logger) *HealthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &HealthService{
		healthRepo: healthRepo,
		logger:     logger,
	}
}

// Check reports OK while the store sees at least one live application
// session. A failing probe is reported as KO rather than as an error.
func (s *HealthService) Check(ctx context.Context) health.Check {
	ctx, span := startUsecaseSpan(ctx, "usecase.HealthService.Check")
	defer span.End()

	sessions, err := s.healthRepo.CountApplicationConnections(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "count application connections failed", "error", err)
		sessions = 0
	}
	if sessions > 0 {
		return health.Check{
			Status:  health.StatusOK,
			Message: fmt.Sprintf(healthWelcomeMessage, sessions),
		}
	}

	return health.Check{
		Status:  health.StatusKO,
		Message: "Database Connection failed!",
	}
}
