// Package catalog provides the registry of known node types and their contracts.
package catalog

import (
	"iter"
	"strings"
	"sync"

	"github.com/dukex/flowmender/pkg/models"
)

// DefaultFallbackType is suggested when no registered type resembles an unknown one.
const DefaultFallbackType = "n8n-nodes-base.code"

// TypeCatalog maps node type identifiers to categories and optional contracts.
//
// Registration is expected to happen before concurrent validation traffic; reads take a
// shared lock so late registration is still safe, only slower.
type TypeCatalog struct {
	mu         sync.RWMutex
	categories []string
	types      map[string][]string
	categoryOf map[string]string
	contracts  map[string]*models.NodeTypeContract
	fallback   string
}

// Option configures a TypeCatalog.
type Option func(*TypeCatalog)

// WithFallbackType sets the generic script/function type SuggestSimilar falls back to.
func WithFallbackType(nodeType string) Option {
	return func(c *TypeCatalog) {
		c.fallback = nodeType
	}
}

// New creates an empty catalog.
func New(opts ...Option) *TypeCatalog {
	c := &TypeCatalog{
		types:      make(map[string][]string),
		categoryOf: make(map[string]string),
		contracts:  make(map[string]*models.NodeTypeContract),
		fallback:   DefaultFallbackType,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewDefault creates a catalog loaded with the built-in node types and contracts.
func NewDefault(opts ...Option) *TypeCatalog {
	c := New(opts...)

	for _, group := range defaultTypes {
		for _, nodeType := range group.types {
			c.Register(group.category, nodeType)
		}
	}

	for _, entry := range defaultContracts {
		c.RegisterContract(entry.nodeType, entry.contract)
	}

	// Triggers start a run and take no input.
	for _, nodeType := range c.snapshot() {
		if category, _ := c.CategoryOf(nodeType); category != CategoryTrigger {
			continue
		}

		if _, ok := c.LookupContract(nodeType); !ok {
			c.RegisterContract(nodeType, models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true})
		}
	}

	return c
}

// IsValid reports whether the node type is registered.
func (c *TypeCatalog) IsValid(nodeType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.categoryOf[nodeType]

	return ok
}

// CategoryOf returns the category a type is registered under.
func (c *TypeCatalog) CategoryOf(nodeType string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	category, ok := c.categoryOf[nodeType]

	return category, ok
}

// LookupContract returns the contract of a registered type, if it has one.
func (c *TypeCatalog) LookupContract(nodeType string) (*models.NodeTypeContract, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, registered := c.categoryOf[nodeType]; !registered {
		return nil, false
	}

	contract, ok := c.contracts[nodeType]

	return contract, ok
}

// Register adds a type under a category. Registering the same pair twice is a no-op;
// registering a known type under another category moves it.
func (c *TypeCatalog) Register(category, nodeType string) {
	if category == "" || nodeType == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.categoryOf[nodeType]; ok {
		if current == category {
			return
		}

		c.removeLocked(nodeType)
	}

	if _, ok := c.types[category]; !ok {
		c.categories = append(c.categories, category)
	}

	c.types[category] = append(c.types[category], nodeType)
	c.categoryOf[nodeType] = category
}

// RegisterContract registers a type under the contract's category and attaches the contract.
func (c *TypeCatalog) RegisterContract(nodeType string, contract models.NodeTypeContract) {
	if contract.Category == "" {
		if category, ok := c.CategoryOf(nodeType); ok {
			contract.Category = category
		}
	}

	c.Register(contract.Category, nodeType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.categoryOf[nodeType]; ok {
		c.contracts[nodeType] = &contract
	}
}

// Unregister removes a type and its contract. Unknown types are ignored.
func (c *TypeCatalog) Unregister(nodeType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.categoryOf[nodeType]; !ok {
		return
	}

	c.removeLocked(nodeType)
	delete(c.contracts, nodeType)
}

func (c *TypeCatalog) removeLocked(nodeType string) {
	category := c.categoryOf[nodeType]
	delete(c.categoryOf, nodeType)

	list := c.types[category]
	for i, t := range list {
		if t == nodeType {
			c.types[category] = append(list[:i:i], list[i+1:]...)

			break
		}
	}

	if len(c.types[category]) > 0 {
		return
	}

	delete(c.types, category)

	for i, name := range c.categories {
		if name == category {
			c.categories = append(c.categories[:i:i], c.categories[i+1:]...)

			break
		}
	}
}

// Categories returns the category names in registration order.
func (c *TypeCatalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.categories...)
}

// AllTypes yields every registered type, category by category in registration order.
// Each iteration walks a fresh snapshot, so the sequence can be restarted and is safe to
// consume while the catalog changes.
func (c *TypeCatalog) AllTypes() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, nodeType := range c.snapshot() {
			if !yield(nodeType) {
				return
			}
		}
	}
}

func (c *TypeCatalog) snapshot() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]string, 0, len(c.categoryOf))
	for _, category := range c.categories {
		all = append(all, c.types[category]...)
	}

	return all
}

// SuggestSimilar returns the first registered type sharing at least half of the tokens of
// the invalid type, or the fallback type. It is a diagnostic hint only.
func (c *TypeCatalog) SuggestSimilar(invalidType string) string {
	wanted := Tokenize(invalidType)
	if len(wanted) == 0 {
		return c.fallback
	}

	for candidate := range c.AllTypes() {
		have := make(map[string]struct{})
		for _, token := range Tokenize(candidate) {
			have[token] = struct{}{}
		}

		overlap := 0

		for _, token := range wanted {
			if _, ok := have[token]; ok {
				overlap++
			}
		}

		if overlap*2 >= len(wanted) {
			return candidate
		}
	}

	return c.fallback
}

// Tokenize splits a type identifier on separators and lowercases the parts.
func Tokenize(nodeType string) []string {
	fields := strings.FieldsFunc(strings.ToLower(nodeType), func(r rune) bool {
		switch r {
		case '.', '-', '_', ':', '/', '@', ' ', '\t':
			return true
		default:
			return false
		}
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))

	for _, field := range fields {
		if _, dup := seen[field]; dup {
			continue
		}

		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}

	return tokens
}
