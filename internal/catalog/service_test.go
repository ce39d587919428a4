package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Josecau2/njfinish-sub001/internal/pricing"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

type mockRepository struct {
	entries   map[string]Entry
	templates map[string]ModTemplate
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		entries:   make(map[string]Entry),
		templates: make(map[string]ModTemplate),
	}
}

func (m *mockRepository) ListEntries(ctx context.Context, styleID string) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if styleID == "" || e.StyleID == styleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepository) GetEntry(ctx context.Context, id string) (*Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &e, nil
}

func (m *mockRepository) ListTemplates(ctx context.Context) ([]ModTemplate, error) {
	var out []ModTemplate
	for _, t := range m.templates {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockRepository) CreateTemplate(ctx context.Context, tpl ModTemplate) (*ModTemplate, error) {
	if _, exists := m.templates[tpl.Name]; exists {
		return nil, ErrDuplicateTemplate
	}
	if tpl.ID == "" {
		tpl.ID = "tpl-" + tpl.Name
	}
	m.templates[tpl.Name] = tpl
	return &tpl, nil
}

func ptr[T any](v T) *T { return &v }

func TestPricingEntryConversion(t *testing.T) {
	repo := newMockRepository()
	repo.entries["e1"] = Entry{
		ID:            "e1",
		StyleID:       "shaker-white",
		Code:          "B12",
		Description:   "Base cabinet 12in",
		Price:         180,
		AssemblyType:  ptr("percentage"),
		AssemblyPrice: ptr(10.0),
	}
	svc := NewService(repo)

	entry, err := svc.PricingEntry(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "B12", entry.Code)
	assert.Equal(t, 180.0, entry.Price)
	require.NotNil(t, entry.AssemblyRule)
	assert.Equal(t, pricing.RulePercentage, entry.AssemblyRule.Type)
	assert.Equal(t, 10.0, entry.AssemblyRule.Price)
}

func TestPricingEntryWithoutRule(t *testing.T) {
	repo := newMockRepository()
	repo.entries["e1"] = Entry{ID: "e1", Code: "W30", Price: 95}
	svc := NewService(repo)

	entry, err := svc.PricingEntry(context.Background(), "e1")
	require.NoError(t, err)
	assert.Nil(t, entry.AssemblyRule)
}

func TestPricingEntryNotFound(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.PricingEntry(context.Background(), "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateTemplate(t *testing.T) {
	svc := NewService(newMockRepository())

	tpl, err := svc.CreateTemplate(context.Background(), "  Glass door  ", 25)
	require.NoError(t, err)
	assert.Equal(t, "Glass door", tpl.Name)
	assert.Equal(t, 25.0, tpl.Price)

	_, err = svc.CreateTemplate(context.Background(), "Glass door", 25)
	require.ErrorIs(t, err, ErrDuplicateTemplate)
}

func TestCreateTemplateRequiresName(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.CreateTemplate(context.Background(), "   ", 10)
	require.Error(t, err)
}

func TestCreateTemplateClampsNegativePrice(t *testing.T) {
	svc := NewService(newMockRepository())
	tpl, err := svc.CreateTemplate(context.Background(), "Freebie", -5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tpl.Price)
}

func TestListEntriesFiltersByStyle(t *testing.T) {
	repo := newMockRepository()
	repo.entries["a"] = Entry{ID: "a", StyleID: "s1", Code: "B12"}
	repo.entries["b"] = Entry{ID: "b", StyleID: "s2", Code: "B15"}
	svc := NewService(repo)

	entries, err := svc.ListEntries(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B12", entries[0].Code)
}
