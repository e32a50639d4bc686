package credentials

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContract_Validate(t *testing.T) {
	t.Parallel()

	contract := Contract{
		RequiredFields: []string{"apiKey", "region"},
		Prefixes:       map[string][]string{"apiKey": {"sk-"}},
		Patterns:       map[string]*regexp.Regexp{"region": regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d$`)},
	}

	tests := []struct {
		name      string
		fields    map[string]any
		wantField string
		wantErr   error
	}{
		{name: "valid", fields: map[string]any{"apiKey": "sk-123", "region": "us-east-1"}},
		{name: "empty map reports first required field", fields: map[string]any{}, wantField: "apiKey", wantErr: ErrMissingField},
		{name: "blank value counts as missing", fields: map[string]any{"apiKey": "sk-1", "region": ""}, wantField: "region", wantErr: ErrMissingField},
		{name: "bad prefix", fields: map[string]any{"apiKey": "pk-123", "region": "us-east-1"}, wantField: "apiKey", wantErr: ErrInvalidFormat},
		{name: "bad pattern", fields: map[string]any{"apiKey": "sk-123", "region": "mars"}, wantField: "region", wantErr: ErrInvalidFormat},
		{name: "expressions skip format checks", fields: map[string]any{"apiKey": "={{ $env.KEY }}", "region": "={{ $env.REGION }}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := contract.Validate("serviceX", tt.fields)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.wantField, fieldErr.Field)
			assert.Equal(t, "serviceX", fieldErr.CredentialType)
		})
	}
}

func TestContract_ValidateRunsCheckLast(t *testing.T) {
	t.Parallel()

	called := false
	contract := Contract{
		RequiredFields: []string{"host"},
		Check: func(map[string]any) error {
			called = true

			return errors.New("boom")
		},
	}

	require.Error(t, contract.Validate("db", map[string]any{}))
	assert.False(t, called)

	assert.EqualError(t, contract.Validate("db", map[string]any{"host": "localhost"}), "boom")
	assert.True(t, called)
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry()

	slack, ok := r.Lookup("slackApi")
	require.True(t, ok)
	require.NoError(t, slack.Validate("slackApi", map[string]any{"accessToken": "xoxb-1-2"}))
	assert.ErrorIs(t, slack.Validate("slackApi", map[string]any{"accessToken": "token"}), ErrInvalidFormat)

	telegram, ok := r.Lookup("telegramApi")
	require.True(t, ok)
	assert.NoError(t, telegram.Validate("telegramApi", map[string]any{"accessToken": "123456:ABC-def_1"}))

	pg, ok := r.Lookup("postgres")
	require.True(t, ok)

	fields := map[string]any{"host": "db", "database": "app", "user": "u", "password": "p", "port": float64(70000)}
	assert.ErrorIs(t, pg.Validate("postgres", fields), ErrInvalidFormat)

	fields["port"] = "5432"
	assert.NoError(t, pg.Validate("postgres", fields))

	_, ok = r.Lookup("unknownApi")
	assert.False(t, ok)
	assert.Contains(t, r.Types(), "awsApi")
}
