package domain

import "context"

// Template is read-only reference data selecting how an event is rendered.
// swagger:model Template
type Template struct {
	ID              string `json:"id"`
	Key             string `json:"key"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// TemplateRepository defines read access to the template catalogue.
type TemplateRepository interface {
	GetByID(ctx context.Context, id string) (*Template, error)
	ListActive(ctx context.Context) ([]*Template, error)
}
