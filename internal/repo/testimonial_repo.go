package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyage/server/internal/model"
)

// TestimonialRepo defines testimonial persistence operations.
type TestimonialRepo interface {
	Create(ctx context.Context, name, feedback string) (model.Testimonial, error)
	ListAll(ctx context.Context) ([]model.Testimonial, error)
}

type testimonialRepo struct {
	db *sql.DB
}

// NewTestimonialRepo creates a TestimonialRepo instance.
func NewTestimonialRepo(db *sql.DB) TestimonialRepo {
	return &testimonialRepo{db: db}
}

func (r *testimonialRepo) Create(ctx context.Context, name, feedback string) (model.Testimonial, error) {
	var t model.Testimonial
	var idStr string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (name, feedback)
		VALUES ($1, $2)
		RETURNING id, name, feedback, created_at
	`, name, feedback).Scan(&idStr, &t.Name, &t.Feedback, &t.CreatedAt)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}
	t.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("parse testimonial ID: %w", err)
	}
	return t, nil
}

func (r *testimonialRepo) ListAll(ctx context.Context) ([]model.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, feedback, created_at
		FROM testimonials
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []model.Testimonial
	for rows.Next() {
		var t model.Testimonial
		var idStr string
		if err := rows.Scan(&idStr, &t.Name, &t.Feedback, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		t.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse testimonial ID: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate testimonials: %w", err)
	}
	return testimonials, nil
}
