package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyage/server/internal/model"
)

// TeamRepo defines team member persistence operations.
type TeamRepo interface {
	Create(ctx context.Context, name, title, image string) (model.TeamMember, error)
	ListAll(ctx context.Context) ([]model.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, name, title, image *string) (model.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type teamRepo struct {
	db *sql.DB
}

// NewTeamRepo creates a TeamRepo instance.
func NewTeamRepo(db *sql.DB) TeamRepo {
	return &teamRepo{db: db}
}

const teamColumns = `id, name, title, image, created_at`

func scanTeamMember(row *sql.Row) (model.TeamMember, error) {
	var m model.TeamMember
	var idStr string
	err := row.Scan(&idStr, &m.Name, &m.Title, &m.Image, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TeamMember{}, ErrNotFound
		}
		return model.TeamMember{}, fmt.Errorf("scan team member: %w", err)
	}
	m.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.TeamMember{}, fmt.Errorf("parse team member ID: %w", err)
	}
	return m, nil
}

func (r *teamRepo) Create(ctx context.Context, name, title, image string) (model.TeamMember, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO team_members (name, title, image)
		VALUES ($1, $2, $3)
		RETURNING `+teamColumns, name, title, image)
	return scanTeamMember(row)
}

// ListAll returns team members oldest-first, matching the public page order.
func (r *teamRepo) ListAll(ctx context.Context) ([]model.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM team_members ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		var idStr string
		if err := rows.Scan(&idStr, &m.Name, &m.Title, &m.Image, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		m.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse team member ID: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	return members, nil
}

func (r *teamRepo) Update(ctx context.Context, id uuid.UUID, name, title, image *string) (model.TeamMember, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE team_members SET
			name = COALESCE($2, name),
			title = COALESCE($3, title),
			image = COALESCE($4, image)
		WHERE id = $1
		RETURNING `+teamColumns, id.String(), name, title, image)
	return scanTeamMember(row)
}

func (r *teamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
