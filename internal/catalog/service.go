package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Josecau2/njfinish-sub001/internal/pricing"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListEntries returns the catalog entries for a manufacturer style.
// An empty styleID lists everything.
func (s *Service) ListEntries(ctx context.Context, styleID string) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx, styleID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// GetEntry fetches one catalog entry.
func (s *Service) GetEntry(ctx context.Context, id string) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

// PricingEntry resolves a catalog entry in the shape the pricing engine
// consumes.
func (s *Service) PricingEntry(ctx context.Context, id string) (pricing.CatalogEntry, error) {
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return pricing.CatalogEntry{}, err
	}
	return entry.PricingEntry(), nil
}

// ListTemplates returns the reusable modification templates.
func (s *Service) ListTemplates(ctx context.Context) ([]ModTemplate, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// CreateTemplate saves a modification as a reusable template. The name is
// the natural key; saving the same name twice reports ErrDuplicateTemplate.
func (s *Service) CreateTemplate(ctx context.Context, name string, price float64) (*ModTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create template: name required")
	}
	if price < 0 {
		price = 0
	}
	return s.repo.CreateTemplate(ctx, ModTemplate{Name: name, Price: price})
}
