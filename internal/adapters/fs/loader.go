package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TemplateLoader = (*Loader)(nil)

// Loader reads *.html templates from one or more view roots.
type Loader struct {
	roots   []string
	ignores []string
	walker  *Walker
	hasher  ports.Fingerprinter
}

// NewLoader creates a Loader over the given roots. Relative roots are made absolute.
func NewLoader(roots []string, walker *Walker, hasher ports.Fingerprinter) (*Loader, error) {
	if len(roots) == 0 {
		return nil, domain.ErrNotConfigured
	}

	abs := make([]string, 0, len(roots))
	for _, r := range roots {
		a, err := filepath.Abs(r)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve view root"), "root", r)
		}
		abs = append(abs, a)
	}

	return &Loader{
		roots:   abs,
		ignores: []string{domain.CacheDirName},
		walker:  walker,
		hasher:  hasher,
	}, nil
}

// Roots returns the absolute view roots.
func (l *Loader) Roots() []string {
	return l.roots
}

// LoadAll scans every root. A later root never shadows a logical name found in an earlier one.
func (l *Loader) LoadAll(ctx context.Context) ([]domain.TemplateRecord, error) {
	seen := make(map[string]bool)
	var records []domain.TemplateRecord

	for _, root := range l.roots {
		for path, err := range l.walker.WalkFiles(root, l.ignores) {
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to scan view root"), "root", root)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !isTemplate(path) {
				continue
			}

			rec, err := l.read(root, path)
			if err != nil {
				return nil, err
			}
			if seen[rec.LogicalName] {
				continue
			}
			seen[rec.LogicalName] = true
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoTemplatesFound, "empty view roots"), "roots", strings.Join(l.roots, ","))
	}
	return records, nil
}

// Load reads a single template and derives its logical name from the root containing it.
func (l *Loader) Load(path string) (domain.TemplateRecord, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.TemplateRecord{}, zerr.With(zerr.Wrap(err, "failed to resolve template path"), "path", path)
	}

	for _, root := range l.roots {
		if _, ok := relative(root, abs); ok {
			return l.read(root, abs)
		}
	}
	return domain.TemplateRecord{}, zerr.With(zerr.Wrap(domain.ErrTemplateOutsideRoots, "cannot load template"), "path", abs)
}

func (l *Loader) read(root, path string) (domain.TemplateRecord, error) {
	content, err := os.ReadFile(path) //nolint:gosec // Path is below a configured view root
	if err != nil {
		return domain.TemplateRecord{}, zerr.With(zerr.Wrap(err, domain.ErrTemplateReadFailed.Error()), "path", path)
	}

	rel, _ := relative(root, path)
	name := strings.TrimSuffix(rel, filepath.Ext(rel))

	return domain.TemplateRecord{
		LogicalName: name,
		DisplayName: filepath.Base(name),
		SourcePath:  path,
		RawContent:  string(content),
		Fingerprint: l.hasher.Fingerprint(content),
	}, nil
}

func relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func isTemplate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), domain.TemplateExt)
}
