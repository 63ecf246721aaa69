package directives

import (
	"regexp"
	"strings"
	"sync"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
)

// Placeholder moves a [Name]...[/Name] block to the directive position.
type Placeholder struct {
	blocks sync.Map // name -> *regexp.Regexp
}

// NewPlaceholder creates the placeholder handler.
func NewPlaceholder() *Placeholder { return &Placeholder{} }

// Name implements ports.DirectiveHandler.
func (*Placeholder) Name() string { return PlaceholderName }

// Phase implements ports.DirectiveHandler.
func (*Placeholder) Phase() domain.Phase { return domain.PhaseAfterCompile }

// Process implements ports.DirectiveHandler. Without a matching block the content is unchanged.
func (p *Placeholder) Process(content string, d domain.Directive, _ ports.DirectiveScope) (string, error) {
	re, err := p.block(d.Value)
	if err != nil {
		return "", err
	}

	loc := re.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, nil
	}
	block := content[loc[0]:loc[1]]
	body := content[loc[2]:loc[3]]

	content = strings.Replace(content, d.Token, body, 1)
	return strings.Replace(content, block, "", 1), nil
}

func (p *Placeholder) block(name string) (*regexp.Regexp, error) {
	if re, ok := p.blocks.Load(name); ok {
		return re.(*regexp.Regexp), nil
	}
	q := regexp.QuoteMeta(name)
	re, err := regexp.Compile(`\[` + q + `\]([\s\S]+?)\[/` + q + `\]`)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid placeholder name"), "placeholder", name)
	}
	actual, _ := p.blocks.LoadOrStore(name, re)
	return actual.(*regexp.Regexp), nil
}
