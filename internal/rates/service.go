package rates

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Service resolves pricing rates for user groups and tax zones.
type Service struct {
	repo              Repository
	defaultMultiplier float64
}

// NewService constructs a new Service. Groups without a contracted
// multiplier fall back to defaultMultiplier (1.0 when unset).
func NewService(repo Repository, defaultMultiplier float64) *Service {
	if defaultMultiplier <= 0 {
		defaultMultiplier = 1.0
	}
	return &Service{repo: repo, defaultMultiplier: defaultMultiplier}
}

// Multiplier returns the price multiplier contracted for the user group.
func (s *Service) Multiplier(ctx context.Context, groupID string) (float64, error) {
	if groupID == "" {
		return s.defaultMultiplier, nil
	}
	m, err := s.repo.GroupMultiplier(ctx, groupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.defaultMultiplier, nil
		}
		return 0, fmt.Errorf("group multiplier: %w", err)
	}
	if m <= 0 {
		return s.defaultMultiplier, nil
	}
	return m, nil
}

// TaxRate returns the percentage tax rate for the zone, 0 when unknown.
func (s *Service) TaxRate(ctx context.Context, zone string) (float64, error) {
	if zone == "" {
		return 0, nil
	}
	rate, err := s.repo.ZoneTaxRate(ctx, zone)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("zone tax rate: %w", err)
	}
	if rate < 0 {
		return 0, nil
	}
	return rate, nil
}

// Fetch resolves the multiplier and tax rate in parallel.
func (s *Service) Fetch(ctx context.Context, groupID, zone string) (multiplier, taxRate float64, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		multiplier, err = s.Multiplier(ctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		taxRate, err = s.TaxRate(ctx, zone)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return multiplier, taxRate, nil
}
