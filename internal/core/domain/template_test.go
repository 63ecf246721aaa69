package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/montauk/internal/core/domain"
)

func TestIsFragment(t *testing.T) {
	assert.True(t, domain.IsFragment("Home/CartFragment"))
	assert.True(t, domain.TemplateRecord{LogicalName: "Fragments/Row"}.IsFragment())
	assert.False(t, domain.IsFragment("Home/Index"))
	assert.False(t, domain.IsFragment("Home/fragment"))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "compile", domain.PhaseCompile.String())
	assert.Equal(t, "after-compile", domain.PhaseAfterCompile.String())
	assert.Equal(t, "render", domain.PhaseRender.String())
	assert.Equal(t, "unknown", domain.Phase(9).String())
}
