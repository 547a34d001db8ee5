// Package categorize assigns spending categories to transactions with
// ordered payee and keyword rule tables.
package categorize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"spendwise/internal/core"
)

// Other is returned when no rule matches.
const Other = core.CategoryOther

// Categorizer applies payee rules to the description, then keyword rules to
// the body. The zero value is unusable; use New or Default.
type Categorizer struct {
	payees   []Rule
	keywords []Rule
}

// RuleSet is the on-disk form of the rule tables.
type RuleSet struct {
	Payees   []Rule `yaml:"payees"`
	Keywords []Rule `yaml:"keywords"`
}

// New builds a categorizer from the given tables. Patterns are lowercased.
func New(payees, keywords []Rule) *Categorizer {
	return &Categorizer{
		payees:   normalize(payees),
		keywords: normalize(keywords),
	}
}

// Default returns a categorizer with the built-in tables.
func Default() *Categorizer {
	return New(DefaultPayeeRules, DefaultKeywordRules)
}

// LoadFile reads a YAML rule file. A table missing from the file keeps its
// built-in default.
func LoadFile(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	if rs.Payees == nil {
		rs.Payees = DefaultPayeeRules
	}
	if rs.Keywords == nil {
		rs.Keywords = DefaultKeywordRules
	}
	return New(rs.Payees, rs.Keywords), nil
}

func (rs RuleSet) Validate() error {
	var errs []error
	check := func(table string, rules []Rule) {
		for i, r := range rules {
			if strings.TrimSpace(r.Pattern) == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: empty pattern", table, i))
			}
			if strings.TrimSpace(r.Category) == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: empty category", table, i))
			}
		}
	}
	check("payees", rs.Payees)
	check("keywords", rs.Keywords)
	return errors.Join(errs...)
}

// Categorize returns the category for a message. It never returns "".
func (c *Categorizer) Categorize(body, description string) string {
	if description != "" {
		if cat, ok := firstMatch(c.payees, strings.ToLower(description)); ok {
			return cat
		}
	}
	if cat, ok := firstMatch(c.keywords, strings.ToLower(body)); ok {
		return cat
	}
	return Other
}

// Categories lists every label this categorizer can produce.
func (c *Categorizer) Categories() []string {
	return Categories(c.payees, c.keywords)
}

// SelectForCategorization returns the transactions that have never been
// categorized. Rows labelled Other are terminal and are not selected.
func SelectForCategorization(txs []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.NeedsCategorization() {
			out = append(out, tx)
		}
	}
	return out
}

func firstMatch(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		if strings.Contains(text, r.Pattern) {
			return r.Category, true
		}
	}
	return "", false
}

func normalize(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, Rule{
			Pattern:  strings.ToLower(strings.TrimSpace(r.Pattern)),
			Category: strings.TrimSpace(r.Category),
		})
	}
	return out
}
