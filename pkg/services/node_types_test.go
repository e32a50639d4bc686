package services

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/dukex/flowmender/pkg/registry"
	"github.com/dukex/flowmender/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTypes_List(t *testing.T) {
	service := NewNodeTypes(testutil.NewTestRegistry())

	all, err := service.List(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, []NodeTypeInfo{
		{Type: testutil.TypeTrigger, Category: "trigger"},
		{Type: testutil.TypeAction, Category: "action"},
		{Type: testutil.TypeService, Category: "action"},
	}, all)

	triggers, err := service.List(t.Context(), "trigger")
	require.NoError(t, err)
	assert.Len(t, triggers, 1)

	none, err := service.List(t.Context(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNodeTypes_Get(t *testing.T) {
	service := NewNodeTypes(testutil.NewTestRegistry())

	info, err := service.Get(t.Context(), testutil.TypeAction)
	require.NoError(t, err)
	require.NotNil(t, info.Contract)
	assert.Equal(t, []string{"method", "url"}, info.Contract.RequiredParameters)

	_, err = service.Get(t.Context(), testutil.TypeLegacy)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "legacyVision")

	var serviceErr *ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "node_type_not_found", serviceErr.Code)

	_, err = service.Get(t.Context(), "")
	assert.True(t, IsValidationError(err))
}

func TestNodeTypes_Corrections(t *testing.T) {
	service := NewNodeTypes(registry.NewDefaultRegistry(slog.Default()))

	rules, err := service.Corrections(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].MatchType, rules[i].MatchType)
	}
}

func TestNodeTypes_NotReady(t *testing.T) {
	service := NewNodeTypes(&registry.Registry{})

	_, err := service.List(t.Context(), "")
	assert.True(t, IsUnavailableError(err))

	_, err = service.Get(t.Context(), "x")
	assert.True(t, IsUnavailableError(err))
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "ErrInvalidRequest should be validation error",
			err:      ErrInvalidRequest,
			expected: true,
		},
		{
			name:     "ErrWorkflowNil should be validation error",
			err:      ErrWorkflowNil,
			expected: true,
		},
		{
			name:     "wrapped ServiceError should be validation error",
			err:      NewValidationError("decode", "bad_json", "malformed body", ErrInvalidRequest),
			expected: true,
		},
		{
			name:     "ErrNodeTypeNotFound should NOT be validation error",
			err:      ErrNodeTypeNotFound,
			expected: false,
		},
		{
			name:     "Generic error should NOT be validation error",
			err:      assert.AnError,
			expected: false,
		},
		{
			name:     "Nil error should NOT be validation error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidationError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
