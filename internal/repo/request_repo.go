package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voyage/server/internal/model"
)

// NewRequest carries the fields of a booking request being created.
type NewRequest struct {
	ClientID        uuid.UUID
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	PackageName     string
	TravelDate      time.Time
	Guests          int
	SpecialRequests *string
	TransactionID   string
	TotalAmount     float64
}

// RequestRepo defines booking request persistence operations.
type RequestRepo interface {
	Create(ctx context.Context, req NewRequest) (model.Request, error)
	ListAll(ctx context.Context) ([]model.Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type requestRepo struct {
	db *sql.DB
}

// NewRequestRepo creates a RequestRepo instance.
func NewRequestRepo(db *sql.DB) RequestRepo {
	return &requestRepo{db: db}
}

const requestColumns = `id, client_id, client_name, client_email, client_phone, package_name,
	travel_date, guests, special_requests, status, payment_status, transaction_id, total_amount, created_at`

func (r *requestRepo) Create(ctx context.Context, req NewRequest) (model.Request, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO requests (client_id, client_name, client_email, client_phone, package_name,
			travel_date, guests, special_requests, transaction_id, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+requestColumns,
		req.ClientID.String(), req.ClientName, req.ClientEmail, req.ClientPhone, req.PackageName,
		req.TravelDate, req.Guests, req.SpecialRequests, req.TransactionID, req.TotalAmount)
	return scanRequestRow(row)
}

func scanRequestRow(row *sql.Row) (model.Request, error) {
	var q model.Request
	var idStr, clientIDStr string
	err := row.Scan(
		&idStr, &clientIDStr, &q.ClientName, &q.ClientEmail, &q.ClientPhone, &q.PackageName,
		&q.TravelDate, &q.Guests, &q.SpecialRequests, &q.Status, &q.PaymentStatus,
		&q.TransactionID, &q.TotalAmount, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Request{}, ErrNotFound
		}
		return model.Request{}, fmt.Errorf("scan request: %w", err)
	}
	if q.ID, err = uuid.Parse(idStr); err != nil {
		return model.Request{}, fmt.Errorf("parse request ID: %w", err)
	}
	if q.ClientID, err = uuid.Parse(clientIDStr); err != nil {
		return model.Request{}, fmt.Errorf("parse client ID: %w", err)
	}
	return q, nil
}

func (r *requestRepo) ListAll(ctx context.Context) ([]model.Request, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		var q model.Request
		var idStr, clientIDStr string
		if err := rows.Scan(
			&idStr, &clientIDStr, &q.ClientName, &q.ClientEmail, &q.ClientPhone, &q.PackageName,
			&q.TravelDate, &q.Guests, &q.SpecialRequests, &q.Status, &q.PaymentStatus,
			&q.TransactionID, &q.TotalAmount, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		if q.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse request ID: %w", err)
		}
		if q.ClientID, err = uuid.Parse(clientIDStr); err != nil {
			return nil, fmt.Errorf("parse client ID: %w", err)
		}
		requests = append(requests, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return requests, nil
}

func (r *requestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
