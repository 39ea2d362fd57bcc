package apisvc

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/tests"
)

func TestAuthService_SignIn(t *testing.T) {
	type signInTest struct {
		name         string
		req          user.LoginRequest
		wantErr      error
		wantValidErr bool
		wantCode     int
		wantToken    string
	}
	tests := []signInTest{
		{name: "empty", req: user.LoginRequest{}, wantValidErr: true},
		{name: "invalid email", req: user.LoginRequest{Email: "lol", Password: "pwd"}, wantValidErr: true},
		{name: "bad password", req: user.LoginRequest{Email: "awe@test.fr", Password: "nope"}, wantCode: http.StatusUnauthorized},
		{name: "unknown user", req: user.LoginRequest{Email: "who@test.fr", Password: "pwd"}, wantCode: http.StatusUnauthorized},
		{name: "ok", req: user.LoginRequest{Email: "awe@test.fr", Password: "pwd"}, wantToken: "tok-1"},
		{name: "email is cleaned", req: user.LoginRequest{Email: "  AWE@test.fr ", Password: "pwd"}, wantToken: "tok-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, false)
			f.backend.AddUser(testutil.UserResponse(1, "Awe", "Some", "OS"), "pwd", "tok-1")

			token, err := f.svc.Auth.SignIn(context.Background(), tt.req)
			stored, _ := f.creds.Get(credKey)
			switch {
			case tt.wantValidErr:
				assert.True(t, core.IsValidationError(err), "SignIn() error = %v", err)
				assert.Zero(t, f.backend.Calls("POST /auth/signin"))
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, StatusCode(err))
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantToken, stored)
		})
	}
}

func TestAuthService_SignIn_emptyToken(t *testing.T) {
	f := setup(t, false)
	f.svc.Client.baseURL += "/empty"
	f.backend.JSON("POST /empty/auth/signin", http.StatusOK, map[string]string{"token": ""})

	_, err := f.svc.Auth.SignIn(context.Background(), user.LoginRequest{Email: "awe@test.fr", Password: "pwd"})
	assert.Equal(t, ErrEmptyToken, err)
	_, ok := f.creds.Get(credKey)
	assert.False(t, ok)
}

func TestAuthService_GetMe(t *testing.T) {
	type getMeTest struct {
		name      string
		strict    bool
		token     string
		wantErr   error
		wantCode  int
		wantRoles []user.Role
	}
	tests := []getMeTest{
		{name: "no credential", wantErr: ErrNoCredential},
		{name: "rejected credential", token: "expired", wantCode: http.StatusUnauthorized},
		{name: "ok", token: "tok-1", wantRoles: []user.Role{user.RoleUEReferent, user.RoleStudent}},
		{name: "strict", strict: true, token: "tok-1", wantErr: user.ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.strict)
			f.backend.AddUser(testutil.UserResponse(1, "Awe", "Some", "PL", "ADMIN"), "pwd", "tok-1")
			if tt.token != "" {
				require.NoError(t, f.creds.Set(credKey, tt.token))
			}

			usr, err := f.svc.Auth.GetMe(context.Background())
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, StatusCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, 1, usr.ID)
				assert.Equal(t, "Awe Some", usr.FullName())
				assert.Equal(t, tt.wantRoles, usr.Roles)
				assert.Equal(t, user.GenderMale, usr.Gender)
			}
		})
	}
}
