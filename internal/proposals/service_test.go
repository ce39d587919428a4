package proposals

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Josecau2/njfinish-sub001/internal/pricing"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
	_ "github.com/Josecau2/njfinish-sub001/testing"
)

type mockRepository struct {
	proposals map[string]Proposal
	versions  map[string]ManufacturerVersion
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		proposals: make(map[string]Proposal),
		versions:  make(map[string]ManufacturerVersion),
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) CreateProposal(ctx context.Context, p Proposal) error {
	m.proposals[p.ID] = p
	return nil
}

func (m *mockRepository) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *mockRepository) ListProposals(ctx context.Context, groupID string, limit, offset int) ([]Proposal, error) {
	var out []Proposal
	for _, p := range m.proposals {
		if groupID == "" || p.OwnerGroupID == groupID {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepository) CountProposals(ctx context.Context, groupID string) (int, error) {
	count := 0
	for _, p := range m.proposals {
		if groupID == "" || p.OwnerGroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) CreateVersion(ctx context.Context, mv ManufacturerVersion) error {
	m.versions[mv.ID] = mv
	return nil
}

func (m *mockRepository) GetVersion(ctx context.Context, proposalID, versionID string) (*ManufacturerVersion, error) {
	mv, ok := m.versions[versionID]
	if !ok || mv.ProposalID != proposalID {
		return nil, shared.ErrNotFound
	}
	return &mv, nil
}

func (m *mockRepository) SaveVersion(ctx context.Context, mv ManufacturerVersion) error {
	if _, ok := m.versions[mv.ID]; !ok {
		return shared.ErrNotFound
	}
	m.versions[mv.ID] = mv
	return nil
}

type stubCatalog struct {
	entries map[string]pricing.CatalogEntry
}

func (s *stubCatalog) PricingEntry(ctx context.Context, id string) (pricing.CatalogEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return pricing.CatalogEntry{}, shared.ErrNotFound
	}
	return e, nil
}

type stubRates struct {
	multiplier float64
	taxRate    float64
}

func (s *stubRates) Fetch(ctx context.Context, groupID, zone string) (float64, float64, error) {
	return s.multiplier, s.taxRate, nil
}

type stubEnqueuer struct {
	saved []string
	err   error
}

func (s *stubEnqueuer) EnqueueTemplateSave(ctx context.Context, name string, price float64) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, name)
	return nil
}

type stubPublisher struct {
	published int
	last      pricing.Version
}

func (s *stubPublisher) Publish(ctx context.Context, versionID string, snap pricing.Version) error {
	s.published++
	s.last = snap
	return nil
}

type testEnv struct {
	service   *Service
	repo      *mockRepository
	catalog   *stubCatalog
	rates     *stubRates
	enqueuer  *stubEnqueuer
	publisher *stubPublisher
	identity  shared.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:      newMockRepository(),
		catalog:   &stubCatalog{entries: make(map[string]pricing.CatalogEntry)},
		rates:     &stubRates{multiplier: 1.0},
		enqueuer:  &stubEnqueuer{},
		publisher: &stubPublisher{},
		identity:  shared.Identity{UserID: "u-1", GroupID: "g-1"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.service = NewService(env.repo, env.catalog, env.rates, env.enqueuer, env.publisher, nil, logger)
	return env
}

func (e *testEnv) openVersion(t *testing.T) (*Proposal, *ManufacturerVersion) {
	t.Helper()
	ctx := context.Background()
	p, err := e.service.CreateProposal(ctx, CreateProposalRequest{CustomerName: "Smith kitchen"}, e.identity)
	require.NoError(t, err)
	mv, err := e.service.CreateVersion(ctx, e.identity, p.ID, "NJ Cabinets")
	require.NoError(t, err)
	return p, mv
}

func (e *testEnv) entry(id string, price float64) {
	e.catalog.entries[id] = pricing.CatalogEntry{ID: id, Code: "B" + id, Price: price}
}

func TestCreateVersionSeedsRates(t *testing.T) {
	env := newTestEnv(t)
	env.rates.multiplier = 1.3
	env.rates.taxRate = 7

	_, mv := env.openVersion(t)
	assert.Equal(t, 1.3, mv.Snapshot.Multiplier)
	assert.Equal(t, 7.0, mv.Snapshot.TaxRate)
	assert.Equal(t, int64(1), mv.Revision)
	assert.Equal(t, 1, env.publisher.published)
}

func TestAddItemPersistsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	updated, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	require.Len(t, updated.Snapshot.Items, 1)
	assert.Equal(t, int64(2), updated.Revision)

	stored, err := env.repo.GetVersion(ctx, p.ID, mv.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Snapshot.Items, 1)
	assert.InDelta(t, 100.0, stored.Snapshot.Summary.CabinetsSubtotal, 0.001)
	assert.Equal(t, 2, env.publisher.published)
}

func TestAddItemUnknownEntryLeavesVersionUntouched(t *testing.T) {
	env := newTestEnv(t)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	updated, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, updated.Snapshot.Items)
	assert.Equal(t, int64(1), updated.Revision)
}

func TestAddModificationForcesTaxableForNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	notTaxable := false
	updated, err := env.service.AddModification(ctx, env.identity, p.ID, mv.ID, itemID, AddModificationRequest{
		Type:    "custom",
		Name:    "Soft close",
		Price:   "20",
		Qty:     1,
		Taxable: &notTaxable,
	})
	require.NoError(t, err)
	assert.True(t, updated.Snapshot.Items[0].Modifications[0].Taxable)
}

func TestAddModificationAdminMaySetNonTaxable(t *testing.T) {
	env := newTestEnv(t)
	env.identity.IsAdmin = true
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	notTaxable := false
	updated, err := env.service.AddModification(ctx, env.identity, p.ID, mv.ID, itemID, AddModificationRequest{
		Type:    "custom",
		Name:    "Soft close",
		Price:   "20",
		Qty:     1,
		Taxable: &notTaxable,
	})
	require.NoError(t, err)
	assert.False(t, updated.Snapshot.Items[0].Modifications[0].Taxable)
}

func TestAddCustomModificationEnqueuesTemplateSave(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	_, err = env.service.AddModification(ctx, env.identity, p.ID, mv.ID, itemID, AddModificationRequest{
		Type:  "custom",
		Name:  "Hand carving",
		Price: "150",
		Qty:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hand carving"}, env.enqueuer.saved)
}

func TestExistingModificationDoesNotEnqueueTemplateSave(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	_, err = env.service.AddModification(ctx, env.identity, p.ID, mv.ID, itemID, AddModificationRequest{
		Type:       "existing",
		TemplateID: "tpl-1",
		Name:       "Glass door",
		Price:      "30",
		Qty:        1,
	})
	require.NoError(t, err)
	assert.Empty(t, env.enqueuer.saved)
}

func TestEnqueueFailureDoesNotFailTheMutation(t *testing.T) {
	env := newTestEnv(t)
	env.enqueuer.err = assert.AnError
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	updated, err := env.service.AddModification(ctx, env.identity, p.ID, mv.ID, itemID, AddModificationRequest{
		Type:  "custom",
		Name:  "Hand carving",
		Price: "150",
		Qty:   1,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Snapshot.Items[0].Modifications, 1)
}

func TestValidationFailureLeavesSnapshotUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	_, err = env.service.AddModification(ctx, env.identity, p.ID, mv.ID, itemID, AddModificationRequest{
		Type: "custom",
		Name: "   ",
		Qty:  1,
	})
	var verr *pricing.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := env.repo.GetVersion(ctx, p.ID, mv.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Snapshot.Items[0].Modifications)
	assert.Equal(t, int64(2), stored.Revision)
}

func TestReconcileAppliesCurrentRates(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)

	env.rates.multiplier = 1.1
	env.rates.taxRate = 7

	updated, err := env.service.Reconcile(ctx, env.identity, p.ID, mv.ID, withItem.Revision)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, updated.Snapshot.Items[0].Price, 0.001)
	assert.Equal(t, 7.0, updated.Snapshot.TaxRate)

	// Running it again with the fresh revision changes nothing.
	again, err := env.service.Reconcile(ctx, env.identity, p.ID, mv.ID, updated.Revision)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, again.Snapshot.Items[0].Price, 0.001)
}

func TestReconcileRejectsStaleRevision(t *testing.T) {
	env := newTestEnv(t)
	env.entry("e1", 100)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	_, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)

	_, err = env.service.Reconcile(ctx, env.identity, p.ID, mv.ID, mv.Revision)
	require.ErrorIs(t, err, shared.ErrVersionMismatch)
}

func TestAccessDeniedForOtherGroup(t *testing.T) {
	env := newTestEnv(t)
	p, mv := env.openVersion(t)
	ctx := context.Background()

	outsider := shared.Identity{UserID: "u-2", GroupID: "g-other"}
	_, err := env.service.GetVersion(ctx, outsider, p.ID, mv.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)

	admin := shared.Identity{UserID: "u-3", IsAdmin: true}
	_, err = env.service.GetVersion(ctx, admin, p.ID, mv.ID)
	require.NoError(t, err)
}

func TestListProposalsScopedByGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.service.CreateProposal(ctx, CreateProposalRequest{CustomerName: "A"}, env.identity)
	require.NoError(t, err)
	_, err = env.service.CreateProposal(ctx, CreateProposalRequest{CustomerName: "B"}, shared.Identity{UserID: "u-2", GroupID: "g-2"})
	require.NoError(t, err)

	mine, pg, err := env.service.ListProposals(ctx, env.identity, 0, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, 1, pg.Total)

	all, pg, err := env.service.ListProposals(ctx, shared.Identity{IsAdmin: true}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, pg.Total)
	assert.Equal(t, 1, pg.TotalPages)
}

func TestListProposalsPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := env.service.CreateProposal(ctx, CreateProposalRequest{CustomerName: "C"}, env.identity)
		require.NoError(t, err)
	}

	first, pg, err := env.service.ListProposals(ctx, env.identity, 1, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 3, pg.Total)
	assert.Equal(t, 2, pg.TotalPages)

	second, _, err := env.service.ListProposals(ctx, env.identity, 2, 2)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestEndToEndQuoteFlow(t *testing.T) {
	env := newTestEnv(t)
	env.rates.taxRate = 7
	env.catalog.entries["e1"] = pricing.CatalogEntry{
		ID: "e1", Code: "B12", Price: 100,
		AssemblyRule: &pricing.AssemblyRule{Type: pricing.RuleFlat, Price: 25},
	}
	p, mv := env.openVersion(t)
	ctx := context.Background()

	withItem, err := env.service.AddItem(ctx, env.identity, p.ID, mv.ID, AddItemRequest{EntryID: "e1"})
	require.NoError(t, err)
	itemID := withItem.Snapshot.Items[0].ID

	_, err = env.service.ToggleAssembly(ctx, env.identity, p.ID, mv.ID, true)
	require.NoError(t, err)
	updated, err := env.service.SetDiscount(ctx, env.identity, p.ID, mv.ID, 10)
	require.NoError(t, err)

	s := updated.Snapshot.Summary
	assert.InDelta(t, 125.0, s.StyleTotal, 0.001)
	assert.InDelta(t, 112.5, s.TotalAfterDiscount, 0.001)
	assert.InDelta(t, 120.38, s.GrandTotal, 0.01)

	_, err = env.service.UpdateQty(ctx, env.identity, p.ID, mv.ID, itemID, 2)
	require.NoError(t, err)
	final, err := env.service.GetVersion(ctx, env.identity, p.ID, mv.ID)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, final.Snapshot.Summary.StyleTotal, 0.001)
	assert.Equal(t, final.Snapshot.Summary, env.publisher.last.Summary)
}
