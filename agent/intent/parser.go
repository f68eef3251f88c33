// Package intent maps free text to a contract.Decision with an ordered list
// of keyword rules. The first matching rule wins.
package intent

import (
	"strings"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// Defaults fills AddProduct fields the text does not mention.
type Defaults struct {
	ProductName string
	Category    string
}

var DefaultDefaults = Defaults{
	ProductName: "New product",
	Category:    "Uncategorized",
}

type Parser struct {
	rules    []Rule
	defaults Defaults
}

type Option func(*Parser)

func WithDefaults(d Defaults) Option {
	return func(p *Parser) {
		if d.ProductName != "" {
			p.defaults.ProductName = d.ProductName
		}
		if d.Category != "" {
			p.defaults.Category = d.Category
		}
	}
}

func WithRules(rules []Rule) Option {
	return func(p *Parser) {
		p.rules = rules
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		rules:    DefaultRules(),
		defaults: DefaultDefaults,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse never fails; text no rule matches yields an Unknown decision.
func (p *Parser) Parse(text string) contractx.Decision {
	original := strings.TrimSpace(text)
	lowered := strings.ToLower(original)

	for _, rule := range p.rules {
		if rule.Matches(lowered) {
			return rule.Extract(p.defaults, original, lowered)
		}
	}
	return contractx.Unknown()
}

var defaultParser = New()

func Parse(text string) contractx.Decision {
	return defaultParser.Parse(text)
}
