package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/montauk/internal/core/domain"
)

func TestViewCache_Normalized(t *testing.T) {
	c := domain.ViewCache{
		ViewTemplates: []domain.TemplateRecord{{LogicalName: "b"}, {LogicalName: "a"}},
		ViewDependencies: map[string][]string{
			"b": nil,
		},
	}

	n := c.Normalized()

	assert.Equal(t, "a", n.ViewTemplates[0].LogicalName)
	assert.NotNil(t, n.CompiledViews)
	assert.Equal(t, []string{}, n.ViewDependencies["b"])
	assert.Equal(t, "b", c.ViewTemplates[0].LogicalName, "input must not be reordered")
}

func TestViewCache_SnapshotRoundTrip(t *testing.T) {
	c := domain.ViewCache{
		ViewTemplates: []domain.TemplateRecord{
			{LogicalName: "Home/Index", RawContent: "%%Master=Layout%%hi"},
			{LogicalName: "Shared/Layout", RawContent: "<b>%%View%%</b>"},
		},
		CompiledViews: []domain.TemplateRecord{
			{LogicalName: "Home/Index", CompiledContent: "<b>hi</b>"},
		},
		ViewDependencies: map[string][]string{"Home/Index": {"Shared/Layout"}},
	}

	snap := c.Snapshot()

	v, ok := snap.Compiled("Home/Index")
	require.True(t, ok)
	assert.Equal(t, "<b>hi</b>", v.CompiledContent)
	assert.Equal(t, []string{"Home/Index"}, snap.DependentsOf("Shared/Layout"))
	assert.Equal(t, c.Normalized(), snap.ViewCache().Normalized())
}

func TestSnapshot_Registries(t *testing.T) {
	snap := domain.NewSnapshot(nil, nil, nil)
	templates, compiled, deps := snap.Registries()
	templates["x"] = domain.TemplateRecord{LogicalName: "x"}
	compiled["x"] = domain.TemplateRecord{LogicalName: "x"}
	deps.Add("x", "y")

	assert.Empty(t, snap.TemplateNames())
	assert.Empty(t, snap.CompiledViews())
	assert.Empty(t, snap.DependentsOf("y"))
}
