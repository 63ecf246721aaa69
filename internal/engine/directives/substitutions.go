package directives

import (
	"regexp"
	"strings"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/zerr"
)

// Comment strips @@...@@ blocks at compile time.
type Comment struct {
	re *regexp.Regexp
}

// NewComment creates the comment handler.
func NewComment() *Comment {
	return &Comment{re: regexp.MustCompile(`@@[\s\S]+?@@`)}
}

// Phase implements ports.SubstitutionHandler.
func (*Comment) Phase() domain.Phase { return domain.PhaseCompile }

// Substitute implements ports.SubstitutionHandler.
func (c *Comment) Substitute(content string) (string, error) {
	return c.re.ReplaceAllString(content, ""), nil
}

// Head collects [[...]] blocks into the %%Head%% placeholder.
type Head struct {
	block  *regexp.Regexp
	indent *regexp.Regexp
}

// NewHead creates the head handler.
func NewHead() *Head {
	return &Head{
		block:  regexp.MustCompile(`\[\[([\s\S]+?)\]\]`),
		indent: regexp.MustCompile(`(?m)^\s+`),
	}
}

// Phase implements ports.SubstitutionHandler.
func (*Head) Phase() domain.Phase { return domain.PhaseCompile }

// Substitute implements ports.SubstitutionHandler.
func (h *Head) Substitute(content string) (string, error) {
	var head strings.Builder
	for _, m := range h.block.FindAllStringSubmatch(content, -1) {
		head.WriteString(h.indent.ReplaceAllString(m[1], ""))
		content = strings.Replace(content, m[0], "", 1)
	}
	return strings.ReplaceAll(content, headToken, head.String()), nil
}

// AntiForgery inserts a fresh token for every %%AntiForgeryToken%% at render time.
type AntiForgery struct {
	create func() (string, error)
}

// NewAntiForgery creates the anti-forgery handler. A nil create func leaves the
// placeholder empty.
func NewAntiForgery(create func() (string, error)) *AntiForgery {
	return &AntiForgery{create: create}
}

// Phase implements ports.SubstitutionHandler.
func (*AntiForgery) Phase() domain.Phase { return domain.PhaseRender }

// Substitute implements ports.SubstitutionHandler.
func (a *AntiForgery) Substitute(content string) (string, error) {
	parts := strings.Split(content, antiForgeryToken)
	if len(parts) == 1 {
		return content, nil
	}

	var sb strings.Builder
	sb.WriteString(parts[0])
	for _, part := range parts[1:] {
		if a.create != nil {
			token, err := a.create()
			if err != nil {
				return "", zerr.Wrap(err, "failed to create anti-forgery token")
			}
			sb.WriteString(token)
		}
		sb.WriteString(part)
	}
	return sb.String(), nil
}
