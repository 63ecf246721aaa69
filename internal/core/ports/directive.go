package ports

import "go.trai.ch/montauk/internal/core/domain"

//go:generate mockgen -source=directive.go -destination=mocks/mock_directive.go -package=mocks

// DirectiveScope is what a directive handler may touch while compiling one view.
type DirectiveScope interface {
	// Resolve finds the shared template a directive value refers to.
	Resolve(value string) (domain.TemplateRecord, error)
	// AddDependency records that the view being compiled includes name.
	AddDependency(name string)
}

// DirectiveHandler rewrites content for one %%Name=Value%% directive.
type DirectiveHandler interface {
	// Name is the directive name the handler answers to.
	Name() string
	// Phase is the pass the handler runs in.
	Phase() domain.Phase
	// Process rewrites content for the located directive.
	Process(content string, d domain.Directive, scope DirectiveScope) (string, error)
}

// SubstitutionHandler rewrites content without a directive token.
type SubstitutionHandler interface {
	// Phase is the pass the handler runs in.
	Phase() domain.Phase
	// Substitute returns the rewritten content.
	Substitute(content string) (string, error)
}

// BundleSource lists the files of a resource bundle.
type BundleSource interface {
	// Files returns the ordered files of bundle, or nil when it is unknown.
	Files(bundle string) []string
}
