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

// AdminRepo defines administrator account persistence operations.
type AdminRepo interface {
	Create(ctx context.Context, username, passwordHash string) (model.Admin, error)
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
	SetResetCode(ctx context.Context, username, code string, expires time.Time) error
	// ResetPassword replaces the password hash and clears both reset fields
	// in one conditional update: the username must match, the code must
	// match, and the expiry must be in the future. Returns ErrNotFound
	// when no row qualifies.
	ResetPassword(ctx context.Context, username, code, newPasswordHash string) error
}

type adminRepo struct {
	db *sql.DB
}

// NewAdminRepo creates an AdminRepo instance.
func NewAdminRepo(db *sql.DB) AdminRepo {
	return &adminRepo{db: db}
}

const adminColumns = `id, username, password_hash, reset_otp, reset_expires, created_at`

func scanAdmin(row *sql.Row) (model.Admin, error) {
	var a model.Admin
	var idStr string
	err := row.Scan(
		&idStr,
		&a.Username,
		&a.PasswordHash,
		&a.ResetOTP,
		&a.ResetExpires,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Admin{}, ErrNotFound
		}
		return model.Admin{}, fmt.Errorf("scan admin: %w", err)
	}
	a.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Admin{}, fmt.Errorf("parse admin ID: %w", err)
	}
	return a, nil
}

func (r *adminRepo) Create(ctx context.Context, username, passwordHash string) (model.Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING `+adminColumns, username, passwordHash)

	a, err := scanAdmin(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return model.Admin{}, ErrDuplicate
		}
		return model.Admin{}, fmt.Errorf("insert admin: %w", err)
	}
	return a, nil
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = $1`, username)
	return scanAdmin(row)
}

// SetResetCode stores a fresh reset code and expiry together, invalidating
// any previous code.
func (r *adminRepo) SetResetCode(ctx context.Context, username, code string, expires time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admins SET reset_otp = $2, reset_expires = $3 WHERE username = $1
	`, username, code, expires)
	if err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *adminRepo) ResetPassword(ctx context.Context, username, code, newPasswordHash string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET password_hash = $3, reset_otp = NULL, reset_expires = NULL
		WHERE username = $1 AND reset_otp = $2 AND reset_expires > now()
	`, username, code, newPasswordHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
