package domain

// Phase identifies when a directive or substitution handler runs.
type Phase uint8

const (
	// PhaseCompile runs before compile-phase substitutions.
	PhaseCompile Phase = iota
	// PhaseAfterCompile runs after compile-phase substitutions.
	PhaseAfterCompile
	// PhaseRender runs on every render of a compiled view.
	PhaseRender
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCompile:
		return "compile"
	case PhaseAfterCompile:
		return "after-compile"
	case PhaseRender:
		return "render"
	default:
		return "unknown"
	}
}

// Directive is one located %%Name=Value%% token.
type Directive struct {
	// Token is the full matched text, used to splice exactly this occurrence.
	Token string
	// Name is the directive name, e.g. "Master".
	Name string
	// Value is the directive argument.
	Value string
}
