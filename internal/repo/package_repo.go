package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/voyage/server/internal/model"
)

// PackageUpdate carries the optional fields of a package update; nil fields
// are left unchanged.
type PackageUpdate struct {
	Title       *string
	Location    *string
	Price       *float64
	Duration    *string
	Rating      *float64
	Image       *string
	Type        *string
	Description *string
	Highlights  []string
}

// PackageRepo defines travel package persistence operations.
type PackageRepo interface {
	Create(ctx context.Context, p model.Package) (model.Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Package, error)
	ListAll(ctx context.Context) ([]model.Package, error)
	Update(ctx context.Context, id uuid.UUID, upd PackageUpdate) (model.Package, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type packageRepo struct {
	db *sql.DB
}

// NewPackageRepo creates a PackageRepo instance.
func NewPackageRepo(db *sql.DB) PackageRepo {
	return &packageRepo{db: db}
}

const packageColumns = `id, title, location, price, duration, rating, image, type, description, highlights, created_at`

func scanPackage(row *sql.Row) (model.Package, error) {
	var p model.Package
	var idStr string
	err := row.Scan(
		&idStr, &p.Title, &p.Location, &p.Price, &p.Duration, &p.Rating,
		&p.Image, &p.Type, &p.Description, pq.Array(&p.Highlights), &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Package{}, ErrNotFound
		}
		return model.Package{}, fmt.Errorf("scan package: %w", err)
	}
	p.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Package{}, fmt.Errorf("parse package ID: %w", err)
	}
	return p, nil
}

func (r *packageRepo) Create(ctx context.Context, p model.Package) (model.Package, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO packages (title, location, price, duration, rating, image, type, description, highlights)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+packageColumns,
		p.Title, p.Location, p.Price, p.Duration, p.Rating, p.Image, p.Type, p.Description, pq.Array(p.Highlights))
	return scanPackage(row)
}

func (r *packageRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Package, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE id = $1`, id.String())
	return scanPackage(row)
}

func (r *packageRepo) ListAll(ctx context.Context) ([]model.Package, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+packageColumns+` FROM packages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	var packages []model.Package
	for rows.Next() {
		var p model.Package
		var idStr string
		if err := rows.Scan(
			&idStr, &p.Title, &p.Location, &p.Price, &p.Duration, &p.Rating,
			&p.Image, &p.Type, &p.Description, pq.Array(&p.Highlights), &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		p.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse package ID: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packages: %w", err)
	}
	return packages, nil
}

func (r *packageRepo) Update(ctx context.Context, id uuid.UUID, upd PackageUpdate) (model.Package, error) {
	var highlights interface{}
	if upd.Highlights != nil {
		highlights = pq.Array(upd.Highlights)
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE packages SET
			title = COALESCE($2, title),
			location = COALESCE($3, location),
			price = COALESCE($4, price),
			duration = COALESCE($5, duration),
			rating = COALESCE($6, rating),
			image = COALESCE($7, image),
			type = COALESCE($8, type),
			description = COALESCE($9, description),
			highlights = COALESCE($10, highlights)
		WHERE id = $1
		RETURNING `+packageColumns,
		id.String(), upd.Title, upd.Location, upd.Price, upd.Duration,
		upd.Rating, upd.Image, upd.Type, upd.Description, highlights)
	return scanPackage(row)
}

func (r *packageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
