package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
)

type PostgresTrackingRepository struct {
	db *sql.DB
}

func NewTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{db: db}
}

func (r *PostgresTrackingRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	query := `
		INSERT INTO tracking_events (id, shipment_id, status, location, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.ShipmentID,
		string(event.Status),
		event.Location,
		event.Description,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("tracking event insert error: %v", err)
	}
	return nil
}

func (r *PostgresTrackingRepository) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]domain.TrackingEvent, error) {
	query := `
		SELECT id, shipment_id, status, location, description, created_at
		FROM tracking_events
		WHERE shipment_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("tracking history retrieval error: %v", err)
	}
	defer rows.Close()

	var events []domain.TrackingEvent
	for rows.Next() {
		var event domain.TrackingEvent
		err := rows.Scan(
			&event.ID,
			&event.ShipmentID,
			&event.Status,
			&event.Location,
			&event.Description,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
