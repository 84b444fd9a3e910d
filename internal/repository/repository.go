package repository

import (
	"context"

	"github.com/shopforge/notification-service/internal/domain"
)

// DispatchRepository defines the persistence operations for dispatch records.
type DispatchRepository interface {
	// Create inserts a new dispatch record.
	Create(ctx context.Context, record *domain.DispatchRecord) error

	// GetByID retrieves a dispatch record by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.DispatchRecord, error)

	// List returns dispatch records newest first, with pagination.
	List(ctx context.Context, offset, limit int) ([]domain.DispatchRecord, int, error)

	// ListByStatus returns dispatch records with the given status, oldest
	// first, up to the given limit.
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.DispatchRecord, error)
}
