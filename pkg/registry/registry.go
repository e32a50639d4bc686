// Package registry provides the validation context: the node type catalog, the credential
// contracts and the correction rules a validator and a repair engine work against.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/dukex/flowmender/pkg/catalog"
	"github.com/dukex/flowmender/pkg/corrections"
	"github.com/dukex/flowmender/pkg/credentials"
	"github.com/dukex/flowmender/pkg/models"
)

// Registry bundles the read-mostly state shared by validation and repair. Administrative
// calls are expected to precede concurrent validation traffic.
type Registry struct {
	logger      *slog.Logger
	Types       *catalog.TypeCatalog
	Credentials *credentials.Registry
	Corrections *corrections.Catalog
	Resolver    CredentialResolver
}

// Option configures a Registry.
type Option func(*Registry)

// WithResolver replaces the credential presence predicate.
func WithResolver(resolver CredentialResolver) Option {
	return func(r *Registry) {
		r.Resolver = resolver
	}
}

// WithTypeCatalog replaces the node type catalog.
func WithTypeCatalog(types *catalog.TypeCatalog) Option {
	return func(r *Registry) {
		r.Types = types
	}
}

// NewRegistry creates a registry with empty catalogs.
func NewRegistry(log *slog.Logger, opts ...Option) *Registry {
	return build(log, catalog.New(), credentials.NewRegistry(), corrections.NewCatalog(), opts)
}

// NewDefaultRegistry creates a registry loaded with the built-in node types, contracts,
// credential contracts and correction rules.
func NewDefaultRegistry(log *slog.Logger, opts ...Option) *Registry {
	return build(log, catalog.NewDefault(), credentials.NewDefaultRegistry(), corrections.NewDefaultCatalog(), opts)
}

func build(
	log *slog.Logger,
	types *catalog.TypeCatalog,
	creds *credentials.Registry,
	rules *corrections.Catalog,
	opts []Option,
) *Registry {
	if log == nil {
		log = slog.Default()
	}

	r := &Registry{
		logger:      log,
		Types:       types,
		Credentials: creds,
		Corrections: rules,
		Resolver:    InlineResolver{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Ready reports whether every catalog is initialized.
func (r *Registry) Ready() bool {
	return r != nil && r.Types != nil && r.Credentials != nil && r.Corrections != nil && r.Resolver != nil
}

// AddNodeType registers a node type under a category.
func (r *Registry) AddNodeType(category, nodeType string) {
	r.Types.Register(category, nodeType)
	r.logger.Debug("Registered node type", "category", category, "type", nodeType)
}

// AddContract registers a node type together with its contract.
func (r *Registry) AddContract(nodeType string, contract models.NodeTypeContract) {
	r.Types.RegisterContract(nodeType, contract)
	r.logger.Debug("Registered node type contract", "type", nodeType, "category", contract.Category)
}

// RemoveNodeType unregisters a node type.
func (r *Registry) RemoveNodeType(nodeType string) {
	r.Types.Unregister(nodeType)
	r.logger.Debug("Removed node type", "type", nodeType)
}

// AddCorrectionRule registers a correction rule.
func (r *Registry) AddCorrectionRule(rule corrections.Rule) error {
	if err := r.Corrections.Add(rule); err != nil {
		return fmt.Errorf("failed to add correction rule: %w", err)
	}

	r.logger.Debug("Registered correction rule", "match", rule.MatchType, "replacement", rule.ReplacementType)

	return nil
}

// AddCredentialContract registers a credential contract.
func (r *Registry) AddCredentialContract(credentialType string, contract credentials.Contract) {
	r.Credentials.Register(credentialType, contract)
	r.logger.Debug("Registered credential contract", "type", credentialType)
}
