package config

import (
	"log/slog"
	"testing"

	"github.com/dukex/flowmender/pkg/credentials"
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overlay = `
nodeTypes:
  - category: custom
    types: [acme.widget, acme.gadget]
removeNodeTypes:
  - n8n-nodes-base.ssh
contracts:
  acme.widget:
    category: custom
    requiredParameters: [endpoint]
    parameterTypes:
      endpoint: string
      retries: number
    requiredCredentialTypes: [acmeApi]
credentials:
  acmeApi:
    requiredFields: [token]
    prefixes:
      token: [acme_]
    patterns:
      token: "^acme_[a-z0-9]+$"
corrections:
  - matchType: acme.oldWidget
    replacementType: acme.widget
    rationale: widgets replaced the old widget node
    renames:
      url: endpoint
    defaults:
      retries: 3
`

func newTestLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	loader, err := NewLoader(fs, slog.Default())
	require.NoError(t, err)

	return loader
}

func TestLoader_LoadInto(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"/etc/flowmender/catalog.yaml": overlay})
	reg := registry.NewDefaultRegistry(slog.Default())

	require.True(t, reg.Types.IsValid("n8n-nodes-base.ssh"))
	require.NoError(t, loader.LoadInto(reg, "/etc/flowmender/catalog.yaml"))

	assert.True(t, reg.Types.IsValid("acme.widget"))
	assert.True(t, reg.Types.IsValid("acme.gadget"))
	assert.False(t, reg.Types.IsValid("n8n-nodes-base.ssh"))

	contract, ok := reg.Types.LookupContract("acme.widget")
	require.True(t, ok)
	assert.Equal(t, []string{"endpoint"}, contract.RequiredParameters)
	assert.Equal(t, models.PrimitiveNumber, contract.ParameterTypes["retries"])

	credential, ok := reg.Credentials.Lookup("acmeApi")
	require.True(t, ok)
	require.NoError(t, credential.Validate("acmeApi", map[string]any{"token": "acme_abc123"}))
	require.ErrorIs(t, credential.Validate("acmeApi", map[string]any{"token": "acme_ABC"}), credentials.ErrInvalidFormat)

	rule, ok := reg.Corrections.Lookup("acme.oldWidget")
	require.True(t, ok)

	params, err := rule.Apply(map[string]any{"url": "https://acme.test", "legacy": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"endpoint": "https://acme.test", "retries": 3}, params)
}

func TestLoader_JSONFile(t *testing.T) {
	loader := newTestLoader(t, map[string]string{
		"catalog.json": `{"nodeTypes": [{"category": "custom", "types": ["acme.json"]}]}`,
	})

	file, err := loader.Load("catalog.json")
	require.NoError(t, err)
	assert.Equal(t, []NodeTypeGroup{{Category: "custom", Types: []string{"acme.json"}}}, file.NodeTypes)
}

func TestLoader_EmptyFile(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"empty.yaml": ""})
	reg := registry.NewRegistry(slog.Default())

	require.NoError(t, loader.LoadInto(reg, "empty.yaml"))
	assert.Empty(t, reg.Types.Categories())
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		detail  string
	}{
		{
			name:    "unknown top-level key",
			content: "nodes: []",
			wantErr: ErrInvalidConfig,
			detail:  "nodes",
		},
		{
			name:    "bad primitive type",
			content: "contracts:\n  x:\n    category: c\n    parameterTypes:\n      a: integer",
			wantErr: ErrInvalidConfig,
			detail:  "contracts.x.parameterTypes.a",
		},
		{
			name:    "correction without replacement",
			content: "corrections:\n  - matchType: a",
			wantErr: ErrInvalidConfig,
			detail:  "replacementType",
		},
		{
			name:    "self-mapping correction",
			content: "corrections:\n  - matchType: a\n    replacementType: a",
			wantErr: ErrInvalidConfig,
			detail:  "maps onto itself",
		},
		{
			name:    "invalid pattern",
			content: "credentials:\n  c:\n    patterns:\n      token: \"([\"",
			wantErr: ErrInvalidConfig,
			detail:  "pattern for token",
		},
		{
			name:    "malformed yaml",
			content: "nodeTypes: [",
			wantErr: ErrReadConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t, map[string]string{"catalog.yaml": tt.content})
			reg := registry.NewRegistry(slog.Default())

			err := loader.LoadInto(reg, "catalog.yaml")

			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "catalog.yaml")
			assert.Contains(t, err.Error(), tt.detail)
			assert.Empty(t, reg.Types.Categories(), "a rejected file must not change the registry")
			assert.Empty(t, reg.Corrections.Rules())
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := newTestLoader(t, nil)

	_, err := loader.Load("missing.yaml")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.yaml", loadErr.Path)
	assert.ErrorIs(t, err, ErrReadConfig)
}
