package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyage/server/internal/model"
)

// ContactRepo defines contact message persistence operations.
type ContactRepo interface {
	Create(ctx context.Context, name, email, subject, message string) (model.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Contact, error)
	ListAll(ctx context.Context) ([]model.Contact, error)
	// MarkResponded records the admin response text and timestamp and flips
	// the status to Responded.
	MarkResponded(ctx context.Context, id uuid.UUID, responseText string) (model.Contact, error)
}

type contactRepo struct {
	db *sql.DB
}

// NewContactRepo creates a ContactRepo instance.
func NewContactRepo(db *sql.DB) ContactRepo {
	return &contactRepo{db: db}
}

const contactColumns = `id, name, email, subject, message, status, response_text, responded_at, created_at`

func scanContact(row *sql.Row) (model.Contact, error) {
	var c model.Contact
	var idStr string
	err := row.Scan(
		&idStr, &c.Name, &c.Email, &c.Subject, &c.Message,
		&c.Status, &c.ResponseText, &c.RespondedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Contact{}, ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("scan contact: %w", err)
	}
	c.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Contact{}, fmt.Errorf("parse contact ID: %w", err)
	}
	return c, nil
}

func (r *contactRepo) Create(ctx context.Context, name, email, subject, message string) (model.Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING `+contactColumns, name, email, subject, message)
	return scanContact(row)
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id.String())
	return scanContact(row)
}

func (r *contactRepo) ListAll(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var idStr string
		if err := rows.Scan(
			&idStr, &c.Name, &c.Email, &c.Subject, &c.Message,
			&c.Status, &c.ResponseText, &c.RespondedAt, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse contact ID: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *contactRepo) MarkResponded(ctx context.Context, id uuid.UUID, responseText string) (model.Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE contacts
		SET status = $2, response_text = $3, responded_at = now()
		WHERE id = $1
		RETURNING `+contactColumns, id.String(), model.ContactResponded, responseText)
	return scanContact(row)
}
