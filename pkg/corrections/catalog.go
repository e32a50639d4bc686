package corrections

import (
	"sort"
	"sync"
)

// Catalog holds correction rules keyed by the type they match.
type Catalog struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewCatalog creates an empty correction catalog.
func NewCatalog() *Catalog {
	return &Catalog{rules: make(map[string]Rule)}
}

// NewDefaultCatalog creates a catalog holding the built-in rules.
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, rule := range defaultRules() {
		// built-in rules are well-formed
		_ = c.Add(rule)
	}

	return c
}

// Add registers a rule, replacing any rule for the same match type.
func (c *Catalog) Add(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules[rule.MatchType] = rule

	return nil
}

// Remove deletes the rule for a match type.
func (c *Catalog) Remove(matchType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.rules, matchType)
}

// Lookup returns the rule matching a node type.
func (c *Catalog) Lookup(nodeType string) (Rule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rule, ok := c.rules[nodeType]

	return rule, ok
}

// Rules returns every rule ordered by match type.
func (c *Catalog) Rules() []Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rules := make([]Rule, 0, len(c.rules))
	for _, rule := range c.rules {
		rules = append(rules, rule)
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].MatchType < rules[j].MatchType })

	return rules
}
