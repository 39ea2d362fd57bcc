package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/core/sprint"
	"github.com/trezcool/projectgl/core/team"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/services/api"
	"github.com/trezcool/projectgl/services/toast"
	"github.com/trezcool/projectgl/storage/inmem"
	"github.com/trezcool/projectgl/tests"
)

var ctx = context.Background()

func setup(t *testing.T, token string) (*commandLine, *bytes.Buffer, *testutil.Backend) {
	t.Helper()
	pterm.DisableColor()

	backend := testutil.NewBackend(t)
	backend.AddUser(testutil.UserResponse(1, "Awe", "Some", "OS"), "pwd", "tok-os")

	kvs := map[string]string{}
	if token != "" {
		kvs["token"] = token
	}
	creds := inmemstore.New(kvs)
	logger := &testutil.Logger{}
	conf := &core.Config{
		API:        core.APIConfig{BaseURL: backend.APIURL(), Timeout: 5 * time.Second},
		Credential: core.CredentialConfig{Key: "token"},
	}
	toasts := toastsvc.NewQueue(0)
	api := apisvc.New(conf, creds, toasts, logger)
	store := session.NewStore(creds, "token", api.Auth, logger)
	router := nav.NewRouter(nav.NewAppTable(), nav.NewGuard(store), logger)
	store.SetNavigator(router)
	api.LogoutOnUnauthorized(store.Revoke)

	var out bytes.Buffer
	return &commandLine{
		session: store,
		router:  router,
		api:     api,
		views:   &views.Deps{Session: store, API: api},
		toasts:  toasts,
		creds:   creds,
		credKey: "token",
		out:     &out,
	}, &out, backend
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "1", ExpiresAt: exp.Unix()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	wantOut []string
	extra   interface{}
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no email", args: []string{"login"}, wantErr: errHelp},
		{name: "login: no password", args: []string{"login", "-email", "awe@test.fr"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }

		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t, "")
			err := cli.run(ctx, append([]string{"projectgl"}, tt.args...))
			assert.Equal(t, tt.wantErr, err)
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}

	t.Run("bad flag", func(t *testing.T) {
		cli, _, _ := setup(t, "")
		assert.Error(t, cli.run(ctx, []string{"projectgl", "open", "-lol"}))
	})
}

func Test_commandLine_login(t *testing.T) {
	type extra struct {
		pwd string
		err error
	}
	errTerm := errors.New("not a terminal")

	tests := []cliTest{
		{
			name:    "signed in",
			args:    []string{"login", "-email", " AWE@test.fr "},
			extra:   extra{pwd: "pwd"},
			wantOut: []string{"Signed in as Awe Some (Etudiant)"},
		},
		{name: "bad password", args: []string{"login", "-email", "awe@test.fr"}, extra: extra{pwd: "lol"}},
		{name: "prompt failure", args: []string{"login", "-email", "awe@test.fr"}, extra: extra{err: errTerm}, wantErr: errTerm},
	}
	for _, tt := range tests {
		ex := tt.extra.(extra)
		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(ex.pwd), ex.err
		}

		t.Run(tt.name, func(t *testing.T) {
			cli, out, backend := setup(t, "")
			err := cli.run(ctx, append([]string{"projectgl"}, tt.args...))
			token, _ := cli.creds.Get("token")

			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantOut == nil:
				assert.Equal(t, http.StatusUnauthorized, apisvc.StatusCode(err))
				assert.Empty(t, token)
			default:
				require.NoError(t, err)
				assert.Equal(t, "tok-os", token)
				assert.True(t, cli.session.IsAuthenticated())
				// only the new credential's profile is fetched
				assert.Equal(t, 1, backend.Calls("GET /auth/getme"))
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_logout(t *testing.T) {
	cli, out, backend := setup(t, "tok-os")
	require.NoError(t, cli.run(ctx, []string{"projectgl", "logout"}))
	assert.Contains(t, out.String(), "Signed out")
	assert.Zero(t, backend.Calls("GET /auth/getme"))
	assert.False(t, cli.session.IsAuthenticated())
	_, ok := cli.creds.Get("token")
	assert.False(t, ok)
}

func Test_commandLine_status(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	jwtToken := signedToken(t, exp)

	tests := []struct {
		name    string
		token   string
		wantOut []string
	}{
		{name: "not signed in", wantOut: []string{"Not signed in"}},
		{
			name:    "rejected credential",
			token:   "tok-unknown",
			wantOut: []string{"The stored credential was rejected", "Not signed in"},
		},
		{
			name:    "opaque credential",
			token:   "tok-os",
			wantOut: []string{"Awe Some <awe@test.fr>", "Etudiant", "unknown"},
		},
		{
			name:    "jwt credential",
			token:   jwtToken,
			wantOut: []string{"Awe Some <awe@test.fr>", time.Unix(exp.Unix(), 0).Format(time.RFC1123)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, backend := setup(t, tt.token)
			if tt.token == jwtToken {
				backend.AddUser(testutil.UserResponse(1, "Awe", "Some", "OS"), "pwd", jwtToken)
			}
			require.NoError(t, cli.run(ctx, []string{"projectgl", "status"}))
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
			wantCalls := 1
			if tt.token == "" {
				wantCalls = 0
			}
			assert.Equal(t, wantCalls, backend.Calls("GET /auth/getme"))
		})
	}
}

func Test_tokenExpiry(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	assert.Equal(t, "unknown", tokenExpiry("tok-os", now))
	assert.Equal(t, "never", tokenExpiry(noExp, now))
	assert.Equal(t, time.Unix(past.Unix(), 0).Format(time.RFC1123)+" (expired)", tokenExpiry(signedToken(t, past), now))
}

func Test_commandLine_open(t *testing.T) {
	tests := []cliTest{
		{
			name:    "profile",
			args:    []string{"open", "-path", "/profile"},
			extra:   "tok-os",
			wantOut: []string{"Profil", "awe@test.fr", "Etudiant"},
		},
		{
			name:    "no credential",
			args:    []string{"open", "-path", "/profile"},
			wantOut: []string{"/profile -> /login: denied: login required", "Connexion", "Run: login -email EMAIL"},
		},
		{
			name:    "role mismatch",
			args:    []string{"open", "-path", "/preparation"},
			extra:   "tok-os",
			wantOut: []string{"/preparation -> /: denied: role mismatch"},
		},
		{
			name:    "route redirect",
			args:    []string{"open", "-path", "/notation/oral"},
			extra:   "tok-os",
			wantOut: []string{"/notation/oral -> /notation: route redirect"},
		},
		{
			name:    "signed out by the backend",
			args:    []string{"open", "-path", "/teams"},
			extra:   "tok-os",
			wantErr: errSignedOut,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := tt.extra.(string)
			cli, out, backend := setup(t, token)
			if tt.wantErr == errSignedOut {
				backend.JSON("GET /teams", http.StatusUnauthorized, nil)
			}

			err := cli.run(ctx, append([]string{"projectgl"}, tt.args...))
			assert.Equal(t, tt.wantErr, err)
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_open_sprint(t *testing.T) {
	cli, out, backend := setup(t, "tok-os")
	backend.JSON("GET /sprint/{id}", http.StatusOK, sprint.Sprint{ID: 7})
	backend.JSON("GET /teams", http.StatusOK, []team.Response{{
		ID:    3,
		Name:  "Team 3",
		Users: []user.Response{testutil.UserResponse(1, "Awe", "Some", "OS")},
	}})
	backend.JSON("GET /teamOrder/for/{team}/during/{sprint}", http.StatusOK, team.Order{TeamID: 3, SprintID: 7, Order: []int{1}})

	require.NoError(t, cli.run(ctx, []string{"projectgl", "open", "-path", "/notation/oral/runningOrder", "-sprint", "7"}))
	assert.Contains(t, out.String(), "Team 3")
	assert.Contains(t, out.String(), "Awe Some")
	assert.Equal(t, 1, backend.Calls("GET /sprint/{id}"))
	id, ok := cli.session.SelectedSprintID()
	assert.True(t, ok)
	assert.Equal(t, 7, id)
}

func Test_commandLine_printToasts(t *testing.T) {
	cli, out, _ := setup(t, "")
	cli.toasts.Success("yay")
	cli.toasts.Error("nope")
	cli.printToasts()
	assert.Contains(t, out.String(), "yay")
	assert.Contains(t, out.String(), "nope")
	assert.Zero(t, cli.toasts.Len())
}
