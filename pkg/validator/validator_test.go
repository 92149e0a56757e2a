package validator_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xemah/battleweb/pkg/validator"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		values    url.Values
		rules     validator.Rules
		wantError string
	}{
		{
			name:      "empty required email",
			values:    url.Values{"email": {""}},
			rules:     validator.Rules{{Field: "email", Expr: "required|email"}},
			wantError: "The email field is required.",
		},
		{
			name:      "malformed email",
			values:    url.Values{"email": {"not-an-email"}},
			rules:     validator.Rules{{Field: "email", Expr: "required|email"}},
			wantError: "The email field must be a valid email address.",
		},
		{
			name:      "valid payload",
			values:    url.Values{"email": {"user@example.com"}},
			rules:     validator.Rules{{Field: "email", Expr: "required|email"}},
			wantError: "",
		},
		{
			name:   "first declared field wins",
			values: url.Values{"username": {""}, "password": {"short"}},
			rules: validator.Rules{
				{Field: "username", Expr: "required"},
				{Field: "password", Expr: "required|min:8"},
			},
			wantError: "The username field is required.",
		},
		{
			name:      "min with parameter",
			values:    url.Values{"password": {"short"}},
			rules:     validator.Rules{{Field: "password", Expr: "required|min:8"}},
			wantError: "The password field must be at least 8 characters.",
		},
		{
			name:      "optional empty field skips non-required rules",
			values:    url.Values{},
			rules:     validator.Rules{{Field: "website", Expr: "url"}},
			wantError: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := validator.Validate(tt.values, tt.rules)
			if tt.wantError == "" {
				assert.False(t, res.Failed())
				assert.Empty(t, res.Error())
			} else {
				assert.True(t, res.Failed())
				assert.Equal(t, tt.wantError, res.Error())
			}
		})
	}
}

func TestValidateReportsAllFailedFields(t *testing.T) {
	t.Parallel()

	res := validator.Validate(url.Values{}, validator.Rules{
		{Field: "username", Expr: "required"},
		{Field: "email", Expr: "required|email"},
	})

	require.Len(t, res.Errors(), 2)
	assert.Equal(t, "username", res.Errors()[0].Field)
	assert.Equal(t, "email", res.Errors()[1].Field)
}

func TestResultValue(t *testing.T) {
	t.Parallel()

	res := validator.Validate(
		url.Values{"email": {"user@example.com"}},
		validator.Rules{{Field: "email", Expr: "required|email"}},
	)

	assert.Equal(t, "user@example.com", res.Value("email"))
}
