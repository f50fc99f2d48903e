package questions

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

const stackPlaceholder = "{{stack}}"

// Rule maps a set of keywords to a fixed question set.
type Rule struct {
	Name      string   `yaml:"name"`
	Keywords  []string `yaml:"keywords"`
	Questions string   `yaml:"questions"`
}

// Matches reports whether any keyword occurs in the lower-cased stack.
func (r Rule) Matches(lowerStack string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowerStack, kw) {
			return true
		}
	}
	return false
}

// Table is the ordered fallback rule list plus the generic template used
// when no rule matches. Order is significant: first match wins.
type Table struct {
	Rules   []Rule `yaml:"rules"`
	Generic string `yaml:"generic"`
}

// ParseTable decodes a fallback table and checks it is usable.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing fallback table: %w", err)
	}
	for i, r := range t.Rules {
		if len(r.Keywords) == 0 || strings.TrimSpace(r.Questions) == "" {
			return nil, fmt.Errorf("fallback rule %d (%s): keywords and questions are required", i, r.Name)
		}
		for j, kw := range r.Keywords {
			t.Rules[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	if !strings.Contains(t.Generic, stackPlaceholder) {
		return nil, fmt.Errorf("fallback table: generic template must contain %s", stackPlaceholder)
	}
	return &t, nil
}

var defaultTable = mustParseTable(fallbackYAML)

func mustParseTable(data []byte) *Table {
	t, err := ParseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the built-in fallback table.
func DefaultTable() *Table {
	return defaultTable
}

// Lookup returns the questions for stack and the name of the rule that
// produced them ("generic" when nothing matched).
func (t *Table) Lookup(stack string) (questions, rule string) {
	lower := strings.ToLower(strings.TrimSpace(stack))
	for _, r := range t.Rules {
		if r.Matches(lower) {
			return r.Questions, r.Name
		}
	}
	return strings.ReplaceAll(t.Generic, stackPlaceholder, stack), "generic"
}

// Fallback returns the deterministic built-in questions for techStack.
func Fallback(techStack string) string {
	q, _ := defaultTable.Lookup(normalizeStack(techStack))
	return q
}
