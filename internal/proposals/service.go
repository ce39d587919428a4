package proposals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Josecau2/njfinish-sub001/internal/observability"
	"github.com/Josecau2/njfinish-sub001/internal/pricing"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// CatalogSource resolves catalog entries for the engine.
type CatalogSource interface {
	PricingEntry(ctx context.Context, id string) (pricing.CatalogEntry, error)
}

// RateSource resolves the group multiplier and zone tax rate as scalars.
type RateSource interface {
	Fetch(ctx context.Context, groupID, zone string) (multiplier, taxRate float64, err error)
}

// Enqueuer submits background tasks. Enqueue failures are best-effort.
type Enqueuer interface {
	EnqueueTemplateSave(ctx context.Context, name string, price float64) error
}

// Publisher pushes version snapshots to the external summary store.
type Publisher interface {
	Publish(ctx context.Context, versionID string, snap pricing.Version) error
}

// Service orchestrates proposal documents and their pricing contexts. Every
// mutating call follows the same shape: load snapshot, apply one engine
// operation, persist, then publish outward best-effort.
type Service struct {
	repo      Repository
	catalog   CatalogSource
	rates     RateSource
	enqueuer  Enqueuer
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService constructs a new Service. Enqueuer, publisher and metrics may
// be nil; the corresponding side effects are skipped.
func NewService(repo Repository, catalogSvc CatalogSource, rateSvc RateSource, enqueuer Enqueuer, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalogSvc,
		rates:     rateSvc,
		enqueuer:  enqueuer,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateProposal opens a new quote document owned by the caller's group.
func (s *Service) CreateProposal(ctx context.Context, req CreateProposalRequest, identity shared.Identity) (*Proposal, error) {
	now := time.Now().UTC()
	p := Proposal{
		ID:           uuid.NewString(),
		CustomerName: req.CustomerName,
		OwnerGroupID: identity.GroupID,
		TaxZone:      req.TaxZone,
		CreatedBy:    identity.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateProposal(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}
	return &p, nil
}

// ListProposals returns a page of the caller's proposals; administrators
// see all groups.
func (s *Service) ListProposals(ctx context.Context, identity shared.Identity, page, perPage int) ([]Proposal, shared.Pagination, error) {
	groupID := identity.GroupID
	if identity.IsAdmin {
		groupID = ""
	}
	total, err := s.repo.CountProposals(ctx, groupID)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("count proposals: %w", err)
	}
	pg := shared.NewPagination(page, perPage, total)
	proposals, err := s.repo.ListProposals(ctx, groupID, pg.PerPage, (pg.Page-1)*pg.PerPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return proposals, pg, nil
}

// GetProposal fetches one proposal with an ownership check.
func (s *Service) GetProposal(ctx context.Context, identity shared.Identity, id string) (*Proposal, error) {
	p, err := s.repo.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(identity, p) {
		return nil, shared.ErrForbidden
	}
	return p, nil
}

// CreateVersion adds a manufacturer version, seeding the pricing context with
// the multiplier and tax rate resolved for the proposal's group and zone.
func (s *Service) CreateVersion(ctx context.Context, identity shared.Identity, proposalID, manufacturer string) (*ManufacturerVersion, error) {
	p, err := s.GetProposal(ctx, identity, proposalID)
	if err != nil {
		return nil, err
	}

	multiplier, taxRate, err := s.rates.Fetch(ctx, p.OwnerGroupID, p.TaxZone)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}

	mv := ManufacturerVersion{
		ID:           uuid.NewString(),
		ProposalID:   proposalID,
		Manufacturer: manufacturer,
		Revision:     1,
		Snapshot:     *pricing.NewVersion(uuid.NewString(), multiplier, taxRate),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateVersion(ctx, mv); err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}

	s.publish(ctx, &mv)
	return &mv, nil
}

// GetVersion fetches a manufacturer version with its derived summary.
func (s *Service) GetVersion(ctx context.Context, identity shared.Identity, proposalID, versionID string) (*ManufacturerVersion, error) {
	if _, err := s.GetProposal(ctx, identity, proposalID); err != nil {
		return nil, err
	}
	return s.repo.GetVersion(ctx, proposalID, versionID)
}

// AddItem appends a catalog selection. An unknown entry id leaves the
// version untouched.
func (s *Service) AddItem(ctx context.Context, identity shared.Identity, proposalID, versionID string, req AddItemRequest) (*ManufacturerVersion, error) {
	entry, err := s.catalog.PricingEntry(ctx, req.EntryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("unknown catalog entry", slog.String("entry_id", req.EntryID))
			return s.GetVersion(ctx, identity, proposalID, versionID)
		}
		return nil, fmt.Errorf("resolve entry: %w", err)
	}

	return s.mutate(ctx, identity, proposalID, versionID, "add_item", func(v *pricing.Version) error {
		v.AddLineItem(entry, req.AddOnTop)
		return nil
	})
}

// UpdateQty changes a line item quantity.
func (s *Service) UpdateQty(ctx context.Context, identity shared.Identity, proposalID, versionID, itemID string, qty int) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "update_qty", func(v *pricing.Version) error {
		v.UpdateQty(itemID, qty)
		return nil
	})
}

// DeleteItem removes a line item.
func (s *Service) DeleteItem(ctx context.Context, identity shared.Identity, proposalID, versionID, itemID string) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "delete_item", func(v *pricing.Version) error {
		v.DeleteLineItem(itemID)
		return nil
	})
}

// AddModification attaches a modification to a line item. Only
// administrators may mark one non-taxable; for everyone else the flag is
// forced to true. Every custom modification is queued for the template
// store, fire-and-forget.
func (s *Service) AddModification(ctx context.Context, identity shared.Identity, proposalID, versionID, itemID string, req AddModificationRequest) (*ManufacturerVersion, error) {
	taxable := true
	if identity.IsAdmin && req.Taxable != nil {
		taxable = *req.Taxable
	}
	input := pricing.ModificationInput{
		Type:       pricing.ModType(req.Type),
		TemplateID: req.TemplateID,
		Name:       req.Name,
		Price:      req.Price,
		Qty:        req.Qty,
		Note:       req.Note,
		Taxable:    taxable,
	}

	var added *pricing.Modification
	mv, err := s.mutate(ctx, identity, proposalID, versionID, "add_modification", func(v *pricing.Version) error {
		mod, err := v.AddModification(itemID, input)
		if err != nil {
			return err
		}
		added = mod
		return nil
	})
	if err != nil {
		return nil, err
	}

	if added != nil && added.Type == pricing.ModCustom && s.enqueuer != nil {
		if err := s.enqueuer.EnqueueTemplateSave(ctx, added.Name, added.Price); err != nil {
			s.logger.Warn("enqueue template save", slog.Any("error", err), slog.String("name", added.Name))
		}
	}
	return mv, nil
}

// RemoveModification deletes a modification by position.
func (s *Service) RemoveModification(ctx context.Context, identity shared.Identity, proposalID, versionID, itemID string, index int) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "remove_modification", func(v *pricing.Version) error {
		v.RemoveModification(itemID, index)
		return nil
	})
}

// ToggleAssembly flips the global assembled state; every row follows.
func (s *Service) ToggleAssembly(ctx context.Context, identity shared.Identity, proposalID, versionID string, assembled bool) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "toggle_assembly", func(v *pricing.Version) error {
		v.ToggleGlobalAssembled(assembled)
		return nil
	})
}

// ToggleRowAssembly flips one row's assembled state.
func (s *Service) ToggleRowAssembly(ctx context.Context, identity shared.Identity, proposalID, versionID, itemID string, assembled bool) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "toggle_row_assembly", func(v *pricing.Version) error {
		v.ToggleRowAssembly(itemID, assembled)
		return nil
	})
}

// SetSides records hinge and exposed-side picks for an assembled row.
func (s *Service) SetSides(ctx context.Context, identity shared.Identity, proposalID, versionID, itemID string, req SidesRequest) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "set_sides", func(v *pricing.Version) error {
		v.SetSides(itemID, pricing.Side(req.HingeSide), pricing.Side(req.ExposedSide))
		return nil
	})
}

// SetDiscount sets the version discount percentage.
func (s *Service) SetDiscount(ctx context.Context, identity shared.Identity, proposalID, versionID string, percent float64) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "set_discount", func(v *pricing.Version) error {
		return v.SetDiscountPercent(percent)
	})
}

// AddCustomItem appends a manually entered charge. Non-admins cannot mark
// it non-taxable.
func (s *Service) AddCustomItem(ctx context.Context, identity shared.Identity, proposalID, versionID string, req CustomItemRequest) (*ManufacturerVersion, error) {
	taxable := true
	if identity.IsAdmin && req.Taxable != nil {
		taxable = *req.Taxable
	}
	return s.mutate(ctx, identity, proposalID, versionID, "add_custom_item", func(v *pricing.Version) error {
		return v.AddCustomItem(req.Name, req.Price, taxable)
	})
}

// RemoveCustomItem deletes the custom item at index.
func (s *Service) RemoveCustomItem(ctx context.Context, identity shared.Identity, proposalID, versionID string, index int) (*ManufacturerVersion, error) {
	return s.mutate(ctx, identity, proposalID, versionID, "remove_custom_item", func(v *pricing.Version) error {
		v.RemoveCustomItem(index)
		return nil
	})
}

// Reconcile re-applies the group's current multiplier and tax rate to the
// version. The caller submits the revision its view was based on; a mismatch
// means someone else changed the version first and the request is rejected.
func (s *Service) Reconcile(ctx context.Context, identity shared.Identity, proposalID, versionID string, revision int64) (*ManufacturerVersion, error) {
	p, err := s.GetProposal(ctx, identity, proposalID)
	if err != nil {
		return nil, err
	}
	multiplier, taxRate, err := s.rates.Fetch(ctx, p.OwnerGroupID, p.TaxZone)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}

	return s.mutateChecked(ctx, proposalID, versionID, "reconcile", &revision, func(v *pricing.Version) error {
		v.ReconcileMultiplier(multiplier)
		v.SetTaxRate(taxRate)
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, identity shared.Identity, proposalID, versionID, kind string, fn func(*pricing.Version) error) (*ManufacturerVersion, error) {
	if _, err := s.GetProposal(ctx, identity, proposalID); err != nil {
		return nil, err
	}
	return s.mutateChecked(ctx, proposalID, versionID, kind, nil, fn)
}

// mutateChecked runs one engine operation inside a transaction and persists
// the snapshot with a bumped revision. When expectRevision is set, a stored
// revision that moved past it rejects the whole operation.
func (s *Service) mutateChecked(ctx context.Context, proposalID, versionID, kind string, expectRevision *int64, fn func(*pricing.Version) error) (*ManufacturerVersion, error) {
	var result *ManufacturerVersion
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		mv, err := repo.GetVersion(ctx, proposalID, versionID)
		if err != nil {
			return err
		}
		if expectRevision != nil && *expectRevision != mv.Revision {
			return shared.ErrVersionMismatch
		}
		if err := fn(&mv.Snapshot); err != nil {
			return err
		}
		mv.Revision++
		mv.UpdatedAt = time.Now().UTC()
		if err := repo.SaveVersion(ctx, *mv); err != nil {
			return err
		}
		result = mv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveQuoteEvent(kind)
		s.metrics.ObserveSummaryRecompute()
	}
	s.publish(ctx, result)
	return result, nil
}

// publish pushes the snapshot outward. Failure is logged and never surfaced;
// the local mutation already succeeded.
func (s *Service) publish(ctx context.Context, mv *ManufacturerVersion) {
	if s.publisher == nil || mv == nil {
		return
	}
	if err := s.publisher.Publish(ctx, mv.ID, mv.Snapshot); err != nil {
		s.logger.Warn("publish snapshot", slog.Any("error", err), slog.String("version_id", mv.ID))
	}
}

func canAccess(identity shared.Identity, p *Proposal) bool {
	return identity.IsAdmin || identity.GroupID == p.OwnerGroupID
}
