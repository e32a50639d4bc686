package cmd

import (
	"log/slog"
	"testing"

	"github.com/dukex/flowmender/pkg/config"
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Defaults(t *testing.T) {
	reg, err := NewRegistry(t.Context(), slog.Default(), RegistryOptions{PluginsPath: t.TempDir()})
	require.NoError(t, err)

	assert.True(t, reg.Ready())
	assert.True(t, reg.Types.IsValid("n8n-nodes-base.httpRequest"))
	assert.IsType(t, registry.InlineResolver{}, reg.Resolver)
}

func TestNewRegistry_CredentialRefs(t *testing.T) {
	reg, err := NewRegistry(t.Context(), slog.Default(), RegistryOptions{CredentialRefs: true})
	require.NoError(t, err)

	state := reg.Resolver.Resolve(&models.WorkflowNode{
		Credentials: map[string]map[string]any{"slackApi": {"id": "7", "name": "Slack account"}},
	}, "slackApi")
	assert.True(t, state.External)
}

func TestNewRegistry_CatalogFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/catalog.yaml", []byte("nodeTypes:\n  - category: custom\n    types: [acme.widget]\n"), 0o644))

	reg, err := newRegistry(fs, slog.Default(), RegistryOptions{CatalogPath: "/catalog.yaml"})
	require.NoError(t, err)
	assert.True(t, reg.Types.IsValid("acme.widget"))

	_, err = newRegistry(fs, slog.Default(), RegistryOptions{CatalogPath: "/missing.yaml"})
	require.ErrorIs(t, err, config.ErrReadConfig)
}
