package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/tennis-ranking/internal/platform/querybuilder"
)

type HealthRepository struct {
	db              *sqlx.DB
	applicationName string
}

func NewHealthRepository(db *sqlx.DB, applicationName string) *HealthRepository {
	return &HealthRepository{db: db, applicationName: applicationName}
}

// CountApplicationConnections counts server sessions opened under this
// service's application_name.
func (r *HealthRepository) CountApplicationConnections(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("COUNT(1)").From("pg_stat_activity").
		Where(qb.Eq("application_name", r.applicationName)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count sessions query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count application sessions: %w", err)
	}

	return count, nil
}
