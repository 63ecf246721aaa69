package ports

import (
	"context"

	"go.trai.ch/montauk/internal/core/domain"
)

// TemplateLoader discovers view templates under the configured roots.
//
//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type TemplateLoader interface {
	// LoadAll scans every root and returns one record per template file.
	LoadAll(ctx context.Context) ([]domain.TemplateRecord, error)
	// Load reads a single template file and derives its logical name.
	Load(path string) (domain.TemplateRecord, error)
	// Roots returns the absolute view roots.
	Roots() []string
}
