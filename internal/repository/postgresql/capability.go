package postgresql

import (
	"context"

	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
)

type capabilityRepositoryImpl struct {
	db *database.DB
}

func NewCapabilityRepository(db *database.DB) authz.CapabilityRepository {
	return &capabilityRepositoryImpl{db: db}
}

// HasCapability resolves through the employee's position: capabilities are
// granted per position code, not per employee.
func (r *capabilityRepositoryImpl) HasCapability(ctx context.Context, employeeID string, capability authz.Capability) (bool, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM position_capabilities pc
			JOIN employees e ON e.position_code = pc.position_code
			WHERE e.id = $1 AND e.active AND pc.capability = $2
		)
	`

	var ok bool
	if err := q.QueryRow(ctx, query, employeeID, string(capability)).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
