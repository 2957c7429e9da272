package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/voyage/server/internal/model"
)

// uniqueViolation is the Postgres error code for a unique-constraint breach.
// The unique index on clients.email is what turns the first-registration
// race into a conflict instead of a duplicate account.
const uniqueViolation = "23505"

// ClientRepo defines client account persistence operations.
type ClientRepo interface {
	Create(ctx context.Context, name, email, passwordHash, otpCode string, otpExpires time.Time) (model.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Client, error)
	GetByEmail(ctx context.Context, email string) (model.Client, error)
	RefreshOTP(ctx context.Context, id uuid.UUID, otpCode string, otpExpires time.Time) error
	ClearOTP(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, bio, profileImage *string) (model.Client, error)
	ListAll(ctx context.Context) ([]model.Client, error)
	ToggleBlocked(ctx context.Context, id uuid.UUID) (model.Client, error)
}

type clientRepo struct {
	db *sql.DB
}

// NewClientRepo creates a ClientRepo instance.
func NewClientRepo(db *sql.DB) ClientRepo {
	return &clientRepo{db: db}
}

const clientColumns = `id, name, email, password_hash, bio, profile_image, otp_code, otp_expires, is_blocked, created_at`

func scanClient(row *sql.Row) (model.Client, error) {
	var c model.Client
	var idStr string
	err := row.Scan(
		&idStr,
		&c.Name,
		&c.Email,
		&c.PasswordHash,
		&c.Bio,
		&c.ProfileImage,
		&c.OTPCode,
		&c.OTPExpires,
		&c.IsBlocked,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Client{}, ErrNotFound
		}
		return model.Client{}, fmt.Errorf("scan client: %w", err)
	}
	c.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Client{}, fmt.Errorf("parse client ID: %w", err)
	}
	return c, nil
}

// Create inserts a new client in the pending-verification state. A concurrent
// insert for the same email loses the race at the unique index and surfaces
// as ErrDuplicate.
func (r *clientRepo) Create(ctx context.Context, name, email, passwordHash, otpCode string, otpExpires time.Time) (model.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO clients (name, email, password_hash, otp_code, otp_expires)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+clientColumns,
		name, email, passwordHash, otpCode, otpExpires)

	c, err := scanClient(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return model.Client{}, ErrDuplicate
		}
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id.String())
	return scanClient(row)
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (model.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE email = $1`, email)
	return scanClient(row)
}

// RefreshOTP overwrites the pending-verification fields with a fresh code.
func (r *clientRepo) RefreshOTP(ctx context.Context, id uuid.UUID, otpCode string, otpExpires time.Time) error {
	return r.exec(ctx, `
		UPDATE clients SET otp_code = $2, otp_expires = $3 WHERE id = $1
	`, id.String(), otpCode, otpExpires)
}

// ClearOTP removes the pending-verification fields, marking the account
// verified permanently.
func (r *clientRepo) ClearOTP(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `
		UPDATE clients SET otp_code = NULL, otp_expires = NULL WHERE id = $1
	`, id.String())
}

func (r *clientRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, `
		UPDATE clients SET password_hash = $2 WHERE id = $1
	`, id.String(), passwordHash)
}

// UpdateProfile applies the non-nil fields and returns the updated record.
func (r *clientRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, bio, profileImage *string) (model.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE clients SET
			name = COALESCE($2, name),
			bio = COALESCE($3, bio),
			profile_image = COALESCE($4, profile_image)
		WHERE id = $1
		RETURNING `+clientColumns,
		id.String(), name, bio, profileImage)
	return scanClient(row)
}

func (r *clientRepo) ListAll(ctx context.Context) ([]model.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var idStr string
		if err := rows.Scan(
			&idStr, &c.Name, &c.Email, &c.PasswordHash, &c.Bio, &c.ProfileImage,
			&c.OTPCode, &c.OTPExpires, &c.IsBlocked, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse client ID: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

// ToggleBlocked flips the blocked flag and returns the updated record.
func (r *clientRepo) ToggleBlocked(ctx context.Context, id uuid.UUID) (model.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE clients SET is_blocked = NOT is_blocked WHERE id = $1
		RETURNING `+clientColumns, id.String())
	return scanClient(row)
}

func (r *clientRepo) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
