package storage

import (
	"context"
	"fmt"

	"github.com/skyfuel-aero/skyfuel-platform/internal/models"
)

// CreateDemoRequest persists a demo inquiry and returns its id.
func (s *Storage) CreateDemoRequest(ctx context.Context, d models.DemoRequest) (int64, error) {
	const op = "storage.CreateDemoRequest"

	query := `INSERT INTO demo_requests (full_name, work_email, organization_name, role, fuel_volume, message)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		d.FullName, d.WorkEmail, d.OrganizationName, d.Role, d.FuelVolume, d.Message).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
