// Package directives implements the built-in directive and substitution handlers of the view compiler.
package directives

import (
	"strings"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
)

// Directive names.
const (
	MasterName      = "Master"
	PartialName     = "Partial"
	PlaceholderName = "Placeholder"
	BundleName      = "Bundle"
)

const (
	viewToken          = "%%View%%"
	headToken          = "%%Head%%"
	antiForgeryToken   = "%%AntiForgeryToken%%"
	defaultResourceDir = "/Resources"
)

// Master splices the view into a shared layout at %%View%%.
type Master struct{}

// NewMaster creates the layout handler.
func NewMaster() *Master { return &Master{} }

// Name implements ports.DirectiveHandler.
func (*Master) Name() string { return MasterName }

// Phase implements ports.DirectiveHandler.
func (*Master) Phase() domain.Phase { return domain.PhaseCompile }

// Process implements ports.DirectiveHandler.
func (*Master) Process(content string, d domain.Directive, scope ports.DirectiveScope) (string, error) {
	layout, err := scope.Resolve(d.Value)
	if err != nil {
		return "", err
	}
	scope.AddDependency(layout.LogicalName)

	child := strings.Replace(content, d.Token, "", 1)
	return strings.Replace(layout.RawContent, viewToken, child, 1), nil
}

// Partial inlines a shared template at the directive position.
type Partial struct{}

// NewPartial creates the partial handler.
func NewPartial() *Partial { return &Partial{} }

// Name implements ports.DirectiveHandler.
func (*Partial) Name() string { return PartialName }

// Phase implements ports.DirectiveHandler.
func (*Partial) Phase() domain.Phase { return domain.PhaseAfterCompile }

// Process implements ports.DirectiveHandler.
func (*Partial) Process(content string, d domain.Directive, scope ports.DirectiveScope) (string, error) {
	partial, err := scope.Resolve(d.Value)
	if err != nil {
		return "", err
	}
	scope.AddDependency(partial.LogicalName)

	return strings.Replace(content, d.Token, partial.RawContent, 1), nil
}

// Defaults returns the built-in handlers in registration order.
func Defaults(bundles *Bundle, tokens func() (string, error)) ([]ports.DirectiveHandler, []ports.SubstitutionHandler) {
	return []ports.DirectiveHandler{
			NewMaster(),
			NewPlaceholder(),
			NewPartial(),
			bundles,
		}, []ports.SubstitutionHandler{
			NewComment(),
			NewAntiForgery(tokens),
			NewHead(),
		}
}
