// Package postgres provides the PostgreSQL implementation of the dispatch
// record repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/pkg/database"
	apperrors "github.com/shopforge/notification-service/pkg/errors"
)

// DispatchRepository implements repository.DispatchRepository using PostgreSQL.
type DispatchRepository struct {
	pool database.DBTX
}

// NewDispatchRepository creates a new PostgreSQL-backed dispatch repository.
func NewDispatchRepository(pool database.DBTX) *DispatchRepository {
	return &DispatchRepository{pool: pool}
}

// Create inserts a new dispatch record.
func (r *DispatchRepository) Create(ctx context.Context, rec *domain.DispatchRecord) error {
	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("marshal dispatch data: %w", err)
	}

	query := `
		INSERT INTO dispatches (id, event_name, template_id, recipient, status, data, resend_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.pool.Exec(ctx, query,
		rec.ID,
		rec.EventName,
		rec.TemplateID,
		rec.To,
		rec.Status,
		dataJSON,
		rec.ResendOf,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dispatch: %w", err)
	}

	return nil
}

// GetByID retrieves a dispatch record by its ID.
func (r *DispatchRepository) GetByID(ctx context.Context, id string) (*domain.DispatchRecord, error) {
	query := `
		SELECT id, event_name, template_id, recipient, status, data, resend_of, created_at
		FROM dispatches
		WHERE id = $1`

	var (
		rec      domain.DispatchRecord
		dataJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.EventName,
		&rec.TemplateID,
		&rec.To,
		&rec.Status,
		&dataJSON,
		&rec.ResendOf,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("dispatch", id)
		}
		return nil, fmt.Errorf("scan dispatch: %w", err)
	}

	if dataJSON != nil {
		if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
			return nil, fmt.Errorf("unmarshal dispatch data: %w", err)
		}
	}

	return &rec, nil
}

// List returns dispatch records newest first, with pagination.
func (r *DispatchRepository) List(ctx context.Context, offset, limit int) ([]domain.DispatchRecord, int, error) {
	query := `
		SELECT id, event_name, template_id, recipient, status, data, resend_of, created_at,
		       count(*) OVER() AS total_count
		FROM dispatches
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()

	var totalCount int
	records := make([]domain.DispatchRecord, 0)

	for rows.Next() {
		var (
			rec      domain.DispatchRecord
			dataJSON []byte
		)

		if err := rows.Scan(
			&rec.ID,
			&rec.EventName,
			&rec.TemplateID,
			&rec.To,
			&rec.Status,
			&dataJSON,
			&rec.ResendOf,
			&rec.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan dispatch row: %w", err)
		}

		if dataJSON != nil {
			if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
				return nil, 0, fmt.Errorf("unmarshal dispatch data: %w", err)
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate dispatch rows: %w", err)
	}

	return records, totalCount, nil
}

// ListByStatus returns dispatch records with the given status, oldest first.
func (r *DispatchRepository) ListByStatus(ctx context.Context, status string, limit int) ([]domain.DispatchRecord, error) {
	query := `
		SELECT id, event_name, template_id, recipient, status, data, resend_of, created_at
		FROM dispatches
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list dispatches by status: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DispatchRecord, 0)

	for rows.Next() {
		var (
			rec      domain.DispatchRecord
			dataJSON []byte
		)

		if err := rows.Scan(
			&rec.ID,
			&rec.EventName,
			&rec.TemplateID,
			&rec.To,
			&rec.Status,
			&dataJSON,
			&rec.ResendOf,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dispatch row: %w", err)
		}

		if dataJSON != nil {
			if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
				return nil, fmt.Errorf("unmarshal dispatch data: %w", err)
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatch rows: %w", err)
	}

	return records, nil
}
