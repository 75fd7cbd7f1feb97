package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
)

const uniqueViolation = "23505"

type PostgresShipmentRepository struct {
	db *sql.DB
}

func NewShipmentRepository(db *sql.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db}
}

const shipmentColumns = `
	id, awb_code, reference_id, client_order_id, user_id,
	sender_name, sender_address, sender_phone,
	receiver_name, receiver_address, receiver_phone, receiver_city, receiver_pincode,
	weight_kg, declared_value, payment_mode, cod_amount,
	current_status, payment_status, label_url, created_at, updated_at`

const insertShipmentQuery = `
	INSERT INTO shipments (` + shipmentColumns + `
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

func (r *PostgresShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	_, err := r.db.ExecContext(ctx, insertShipmentQuery, insertArgs(shipment)...)
	return mapInsertErr(err)
}

func (r *PostgresShipmentRepository) CreateBatch(ctx context.Context, shipments []*domain.Shipment) error {
	if len(shipments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batch insert begin error: %v", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertShipmentQuery)
	if err != nil {
		return fmt.Errorf("batch insert prepare error: %v", err)
	}
	defer stmt.Close()

	for _, shipment := range shipments {
		if _, err := stmt.ExecContext(ctx, insertArgs(shipment)...); err != nil {
			return mapInsertErr(err)
		}
	}

	return tx.Commit()
}

func (r *PostgresShipmentRepository) GetByAWB(ctx context.Context, awbCode string) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE awb_code = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, awbCode))
}

func (r *PostgresShipmentRepository) GetByAWBForUser(ctx context.Context, awbCode string, userID uuid.UUID) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE awb_code = $1 AND user_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, awbCode, userID))
}

func (r *PostgresShipmentRepository) GetByAWBsForUser(ctx context.Context, awbCodes []string, userID uuid.UUID) ([]*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE awb_code = ANY($1) AND user_id = $2`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(awbCodes), userID)
	if err != nil {
		return nil, fmt.Errorf("shipment bulk retrieval error: %v", err)
	}
	defer rows.Close()

	var shipments []*domain.Shipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}
	return shipments, rows.Err()
}

func (r *PostgresShipmentRepository) GetByReferenceID(ctx context.Context, referenceID string) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE reference_id = $1 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, referenceID))
}

func (r *PostgresShipmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ShipmentStatus) error {
	return r.updateColumn(ctx, id, "current_status", string(status))
}

func (r *PostgresShipmentRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	return r.updateColumn(ctx, id, "payment_status", paymentStatus)
}

// updateColumn is only ever called with column names from the fixed set
// above, never with caller-supplied identifiers.
func (r *PostgresShipmentRepository) updateColumn(ctx context.Context, id uuid.UUID, column, value string) error {
	query := fmt.Sprintf(`UPDATE shipments SET %s = $2, updated_at = NOW() WHERE id = $1`, column)

	result, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("shipment update error: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresShipmentRepository) scanOne(row rowScanner) (*domain.Shipment, error) {
	shipment, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("shipment retrieval error: %v", err)
	}
	return shipment, nil
}

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	shipment := &domain.Shipment{}
	var referenceID, clientOrderID, labelURL sql.NullString

	err := row.Scan(
		&shipment.ID,
		&shipment.AWBCode,
		&referenceID,
		&clientOrderID,
		&shipment.UserID,
		&shipment.SenderName,
		&shipment.SenderAddress,
		&shipment.SenderPhone,
		&shipment.ReceiverName,
		&shipment.ReceiverAddr,
		&shipment.ReceiverPhone,
		&shipment.ReceiverCity,
		&shipment.ReceiverPin,
		&shipment.WeightKg,
		&shipment.DeclaredValue,
		&shipment.PaymentMode,
		&shipment.CODAmount,
		&shipment.CurrentStatus,
		&shipment.PaymentStatus,
		&labelURL,
		&shipment.CreatedAt,
		&shipment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	shipment.ReferenceID = referenceID.String
	shipment.ClientOrderID = clientOrderID.String
	shipment.LabelURL = labelURL.String
	return shipment, nil
}

func insertArgs(s *domain.Shipment) []interface{} {
	return []interface{}{
		s.ID, s.AWBCode, nullString(s.ReferenceID), nullString(s.ClientOrderID), s.UserID,
		s.SenderName, s.SenderAddress, s.SenderPhone,
		s.ReceiverName, s.ReceiverAddr, s.ReceiverPhone, s.ReceiverCity, s.ReceiverPin,
		s.WeightKg, s.DeclaredValue, string(s.PaymentMode), s.CODAmount,
		string(s.CurrentStatus), s.PaymentStatus, nullString(s.LabelURL), s.CreatedAt, s.UpdatedAt,
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func mapInsertErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errs.ErrDuplicateAWB
	}
	return fmt.Errorf("shipment insert error: %v", err)
}
