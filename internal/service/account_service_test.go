package service

import (
	"context"
	"testing"

	"shopfront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	// Validation rejects before any store access.
	svc := NewAccountService(nil, "default123")
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{
			name:  "missing username",
			input: RegisterInput{Password: "secret", ConfirmPassword: "secret"},
			field: "username",
		},
		{
			name:  "missing password",
			input: RegisterInput{Username: "alice"},
			field: "password",
		},
		{
			name:  "password mismatch",
			input: RegisterInput{Username: "alice", Password: "secret", ConfirmPassword: "other"},
			field: "confirm_password",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreateUserRequiresUsername(t *testing.T) {
	svc := NewAccountService(nil, "default123")

	_, err := svc.CreateUser(context.Background(), UserInput{}, store.ProfileUpdate{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}
