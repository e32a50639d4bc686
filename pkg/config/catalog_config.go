// Package config provides loading of catalog overlay files
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dukex/flowmender/pkg/corrections"
	"github.com/dukex/flowmender/pkg/credentials"
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var overlaySchema string

// CatalogFile is the structure of a catalog overlay file (YAML or JSON).
type CatalogFile struct {
	NodeTypes       []NodeTypeGroup                    `yaml:"nodeTypes"`
	RemoveNodeTypes []string                           `yaml:"removeNodeTypes"`
	Contracts       map[string]models.NodeTypeContract `yaml:"contracts"`
	Credentials     map[string]CredentialConfig        `yaml:"credentials"`
	Corrections     []CorrectionConfig                 `yaml:"corrections"`
}

// NodeTypeGroup lists types registered under one category.
type NodeTypeGroup struct {
	Category string   `yaml:"category"`
	Types    []string `yaml:"types"`
}

// CredentialConfig is the declarative form of a credential contract.
type CredentialConfig struct {
	RequiredFields []string            `yaml:"requiredFields"`
	Prefixes       map[string][]string `yaml:"prefixes"`
	Patterns       map[string]string   `yaml:"patterns"`
}

// CorrectionConfig is the declarative form of a correction rule: renamed parameters are
// carried over, everything else is dropped, then defaults fill the gaps.
type CorrectionConfig struct {
	MatchType       string            `yaml:"matchType"`
	ReplacementType string            `yaml:"replacementType"`
	Rationale       string            `yaml:"rationale"`
	Renames         map[string]string `yaml:"renames"`
	Defaults        map[string]any    `yaml:"defaults"`
}

// Loader reads catalog overlay files and applies them to a registry.
type Loader struct {
	fs     afero.Fs
	logger *slog.Logger
	schema *gojsonschema.Schema
}

// NewLoader creates a loader reading from fs.
func NewLoader(fs afero.Fs, log *slog.Logger) (*Loader, error) {
	if log == nil {
		log = slog.Default()
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(overlaySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}

	return &Loader{
		fs:     fs,
		logger: log,
		schema: schema,
	}, nil
}

// Load reads, schema-checks and decodes a catalog file.
func (l *Loader) Load(path string) (*CatalogFile, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, &LoadError{Path: path, Detail: err.Error(), Err: ErrReadConfig}
	}

	var document map[string]any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, &LoadError{Path: path, Detail: err.Error(), Err: ErrReadConfig}
	}

	if document == nil {
		document = map[string]any{}
	}

	result, err := l.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, &LoadError{Path: path, Detail: err.Error(), Err: ErrInvalidConfig}
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return nil, &LoadError{Path: path, Detail: strings.Join(problems, "; "), Err: ErrInvalidConfig}
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Path: path, Detail: err.Error(), Err: ErrReadConfig}
	}

	return &file, nil
}

// Apply registers everything the file declares. Patterns and rules are checked before the
// registry is touched, so a rejected file leaves the registry unchanged.
func (l *Loader) Apply(reg *registry.Registry, path string, file *CatalogFile) error {
	creds := make(map[string]credentials.Contract, len(file.Credentials))

	for _, credentialType := range models.SortedKeys(file.Credentials) {
		contract, err := credentialContract(file.Credentials[credentialType])
		if err != nil {
			return &LoadError{Path: path, Detail: fmt.Sprintf("credential %s: %v", credentialType, err), Err: ErrInvalidConfig}
		}

		creds[credentialType] = contract
	}

	rules := make([]corrections.Rule, 0, len(file.Corrections))

	for _, correction := range file.Corrections {
		rule := corrections.MappedRule(correction.MatchType, correction.ReplacementType, correction.Rationale,
			correction.Renames, correction.Defaults)
		if err := rule.Validate(); err != nil {
			return &LoadError{Path: path, Detail: err.Error(), Err: ErrInvalidConfig}
		}

		rules = append(rules, rule)
	}

	for _, group := range file.NodeTypes {
		for _, nodeType := range group.Types {
			reg.AddNodeType(group.Category, nodeType)
		}
	}

	for _, nodeType := range models.SortedKeys(file.Contracts) {
		reg.AddContract(nodeType, file.Contracts[nodeType])
	}

	for _, nodeType := range file.RemoveNodeTypes {
		reg.RemoveNodeType(nodeType)
	}

	for _, credentialType := range models.SortedKeys(creds) {
		reg.AddCredentialContract(credentialType, creds[credentialType])
	}

	for _, rule := range rules {
		if err := reg.AddCorrectionRule(rule); err != nil {
			return &LoadError{Path: path, Detail: err.Error(), Err: ErrInvalidConfig}
		}
	}

	l.logger.Info("Applied catalog file",
		"path", path,
		"node_type_groups", len(file.NodeTypes),
		"contracts", len(file.Contracts),
		"removed", len(file.RemoveNodeTypes),
		"credentials", len(creds),
		"corrections", len(rules),
	)

	return nil
}

// LoadInto loads a catalog file and applies it to reg.
func (l *Loader) LoadInto(reg *registry.Registry, path string) error {
	file, err := l.Load(path)
	if err != nil {
		return err
	}

	return l.Apply(reg, path, file)
}

func credentialContract(cfg CredentialConfig) (credentials.Contract, error) {
	contract := credentials.Contract{
		RequiredFields: cfg.RequiredFields,
		Prefixes:       cfg.Prefixes,
	}

	if len(cfg.Patterns) == 0 {
		return contract, nil
	}

	contract.Patterns = make(map[string]*regexp.Regexp, len(cfg.Patterns))

	for _, field := range models.SortedKeys(cfg.Patterns) {
		pattern, err := regexp.Compile(cfg.Patterns[field])
		if err != nil {
			return credentials.Contract{}, fmt.Errorf("pattern for %s: %w", field, err)
		}

		contract.Patterns[field] = pattern
	}

	return contract, nil
}
