package domain

import "strings"

// FragmentSegment marks templates that are served raw and never directive-compiled.
const FragmentSegment = "Fragment"

// TemplateRecord is one view template. The template store holds records with only the raw
// fields populated; the compiled view registry holds the same records with CompiledContent set.
type TemplateRecord struct {
	// LogicalName is the unique key: the slash-delimited path relative to a view root,
	// without the file extension.
	LogicalName string `json:"logicalName" yaml:"logicalName"`
	// DisplayName is the file stem.
	DisplayName string `json:"displayName" yaml:"displayName"`
	// SourcePath is the path the template was loaded from.
	SourcePath string `json:"sourcePath,omitempty" yaml:"sourcePath,omitempty"`
	// RawContent is the file content as loaded.
	RawContent string `json:"rawContent" yaml:"rawContent"`
	// Fingerprint is the content hash of RawContent.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	// CompiledContent is the output of directive expansion.
	CompiledContent string `json:"compiledContent,omitempty" yaml:"compiledContent,omitempty"`
	// LastRenderResult is the output of the most recent render.
	LastRenderResult string `json:"lastRenderResult,omitempty" yaml:"lastRenderResult,omitempty"`
}

// IsFragment reports whether the record bypasses directive compilation.
func (r TemplateRecord) IsFragment() bool {
	return IsFragment(r.LogicalName)
}

// IsFragment reports whether a logical name denotes a fragment template.
func IsFragment(logicalName string) bool {
	return strings.Contains(logicalName, FragmentSegment)
}
