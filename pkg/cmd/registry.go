// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/flowmender/pkg/config"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/spf13/afero"
)

// RegistryOptions selects what goes into the validation context on top of the built-in
// catalog.
type RegistryOptions struct {
	// CatalogPath is an optional catalog overlay file.
	CatalogPath string
	// PluginsPath holds a `corrections` directory of rule plugins.
	PluginsPath string
	// CredentialRefs treats credential references (`{"id": ...}`) as managed elsewhere.
	CredentialRefs bool
}

func registerCorrectionPlugins(reg *registry.Registry, log *slog.Logger, pluginsPath string) error {
	if pluginsPath == "" {
		return nil
	}

	loaded, err := reg.LoadCorrectionPlugins(pluginsPath)
	if err != nil {
		return fmt.Errorf("failed to load correction plugins: %w", err)
	}

	if loaded > 0 {
		log.Info("Registered correction rules from plugins", "count", loaded)
	}

	return nil
}

func applyCatalogFile(fs afero.Fs, reg *registry.Registry, log *slog.Logger, catalogPath string) error {
	if catalogPath == "" {
		return nil
	}

	loader, err := config.NewLoader(fs, log)
	if err != nil {
		return err
	}

	return loader.LoadInto(reg, catalogPath)
}

// NewRegistry builds the validation context used by every command: the built-in catalog,
// then correction plugins, then the overlay file, so the file has the last word.
func NewRegistry(_ context.Context, log *slog.Logger, opts RegistryOptions) (*registry.Registry, error) {
	return newRegistry(afero.NewOsFs(), log, opts)
}

func newRegistry(fs afero.Fs, log *slog.Logger, opts RegistryOptions) (*registry.Registry, error) {
	var regOpts []registry.Option
	if opts.CredentialRefs {
		regOpts = append(regOpts, registry.WithResolver(registry.ReferenceResolver{}))
	}

	reg := registry.NewDefaultRegistry(log, regOpts...)

	if err := registerCorrectionPlugins(reg, log, opts.PluginsPath); err != nil {
		return nil, err
	}

	if err := applyCatalogFile(fs, reg, log, opts.CatalogPath); err != nil {
		return nil, err
	}

	return reg, nil
}
