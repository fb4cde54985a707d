package postgres

import (
	"context"
	"database/sql"
	"errors"

	"guestrsvp/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{DB: db}
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `
		SELECT id, key, name, description, preview_image_url, is_active
		FROM templates
		WHERE id = $1
	`
	t := &domain.Template{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Key, &t.Name, &t.Description, &t.PreviewImageURL, &t.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *templateRepository) ListActive(ctx context.Context) ([]*domain.Template, error) {
	query := `
		SELECT id, key, name, description, preview_image_url, is_active
		FROM templates
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	templates := make([]*domain.Template, 0)
	for rows.Next() {
		t := &domain.Template{}
		if err := rows.Scan(&t.ID, &t.Key, &t.Name, &t.Description, &t.PreviewImageURL, &t.IsActive); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
