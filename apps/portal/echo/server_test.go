package echoportal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/notification"
	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/core/sprint"
	"github.com/trezcool/projectgl/services/api"
	"github.com/trezcool/projectgl/services/toast"
	"github.com/trezcool/projectgl/storage"
	"github.com/trezcool/projectgl/storage/inmem"
	"github.com/trezcool/projectgl/tests"
)

type fixture struct {
	server  Server
	backend *testutil.Backend
	creds   storage.Storage
	store   *session.Store
	toasts  *toastsvc.Queue
	logger  *testutil.Logger
}

// setup starts a portal against a fake backend, signed in with token if any.
func setup(t *testing.T, token string) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.AddUser(testutil.UserResponse(1, "Awe", "Some", "OS"), "pwd", "tok-os")
	backend.AddUser(testutil.UserResponse(2, "Paul", "Lead", "PL"), "pwd", "tok-pl")

	kvs := map[string]string{}
	if token != "" {
		kvs["token"] = token
	}
	creds := inmemstore.New(kvs)
	logger := &testutil.Logger{}
	toasts := toastsvc.NewQueue(0)
	conf := &core.Config{
		TestMode:   true,
		API:        core.APIConfig{BaseURL: backend.APIURL(), Timeout: 5 * time.Second},
		Portal:     core.PortalConfig{DisableReqLogs: true},
		Credential: core.CredentialConfig{Key: "token"},
	}

	api := apisvc.New(conf, creds, toasts, logger)
	store := session.NewStore(creds, "token", api.Auth, logger)
	table := nav.NewAppTable()
	guard := nav.NewGuard(store)
	router := nav.NewRouter(table, guard, logger)
	store.SetNavigator(router)
	api.LogoutOnUnauthorized(store.Revoke)
	require.NoError(t, store.LoadUser(context.Background()))

	server := NewServer(ServerDeps{
		Conf:    conf,
		Logger:  logger,
		Session: store,
		Table:   table,
		Guard:   guard,
		Router:  router,
		API:     api,
		Toasts:  toasts,
	})
	return &fixture{server: server, backend: backend, creds: creds, store: store, toasts: toasts, logger: logger}
}

func newRequest(method, path string, form ...url.Values) (*http.Request, *httptest.ResponseRecorder) {
	var body string
	if len(form) > 0 {
		body = form[0].Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, httptest.NewRecorder()
}

func (f *fixture) do(method, path string, form ...url.Values) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, form...)
	f.server.ServeHTTP(rec, req)
	return rec
}

type httpTest struct {
	name         string
	token        string
	path         string
	wantCode     int
	wantLocation string
	wantBody     string
}

func TestPage(t *testing.T) {
	tests := []httpTest{
		{
			name:         "restricted without credential",
			path:         "/profile",
			wantCode:     http.StatusSeeOther,
			wantLocation: nav.LoginPath,
		},
		{
			name:     "login without credential",
			path:     "/login",
			wantCode: http.StatusOK,
			wantBody: `action="/login"`,
		},
		{
			name:         "login while authenticated",
			token:        "tok-os",
			path:         "/login",
			wantCode:     http.StatusSeeOther,
			wantLocation: nav.HomePath,
		},
		{
			name:     "profile",
			token:    "tok-os",
			path:     "/profile",
			wantCode: http.StatusOK,
			wantBody: "awe@test.fr",
		},
		{
			name:         "role mismatch",
			token:        "tok-os",
			path:         "/preparation",
			wantCode:     http.StatusSeeOther,
			wantLocation: nav.HomePath,
		},
		{
			name:     "role match",
			token:    "tok-pl",
			path:     "/preparation/sprint",
			wantCode: http.StatusOK,
			wantBody: `action="/preparation/sprint"`,
		},
		{
			name:         "route redirect",
			token:        "tok-os",
			path:         "/notation/oral",
			wantCode:     http.StatusSeeOther,
			wantLocation: "/notation",
		},
		{
			name:         "unknown path",
			token:        "tok-os",
			path:         "/nowhere",
			wantCode:     http.StatusSeeOther,
			wantLocation: nav.HomePath,
		},
		{
			name:     "trailing slash",
			token:    "tok-os",
			path:     "/profile/",
			wantCode: http.StatusOK,
			wantBody: "Profil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.token)
			rec := f.do(http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestPage_home(t *testing.T) {
	f := setup(t, "tok-os")
	f.backend.JSON("GET /notifications/{userId}", http.StatusOK, []notification.Response{
		{ID: 1, Status: notification.StatusUnread},
	})

	rec := f.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bonjour Awe")
	assert.Contains(t, rec.Body.String(), `action="/logout"`)
}

func TestPage_loggedOutByBackend(t *testing.T) {
	f := setup(t, "tok-os")
	f.backend.JSON("GET /teams", http.StatusUnauthorized, nil)

	rec := f.do(http.MethodGet, "/teams")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, nav.LoginPath, rec.Header().Get("Location"))
	assert.False(t, f.store.IsAuthenticated())
}

func TestPage_backendFailure(t *testing.T) {
	f := setup(t, "tok-os")
	f.backend.JSON("GET /flags", http.StatusInternalServerError, nil)

	rec := f.do(http.MethodGet, "/flag")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), http.StatusText(http.StatusBadGateway))
	// the failure toast of the flag service is shown on the error page
	assert.Contains(t, rec.Body.String(), "toast-error")
	assert.Zero(t, f.toasts.Len())
}

func TestLogin(t *testing.T) {
	type loginTest struct {
		name         string
		email        string
		password     string
		wantCode     int
		wantLocation string
		wantBody     string
		wantToken    string
	}
	tests := []loginTest{
		{
			name:         "valid",
			email:        " AWE@test.fr",
			password:     "pwd",
			wantCode:     http.StatusSeeOther,
			wantLocation: nav.HomePath,
			wantToken:    "tok-os",
		},
		{
			name:     "invalid email",
			email:    "awe",
			password: "pwd",
			wantCode: http.StatusBadRequest,
			wantBody: `value="awe"`,
		},
		{
			name:     "bad credentials",
			email:    "awe@test.fr",
			password: "nope",
			wantCode: http.StatusUnauthorized,
			wantBody: "Email ou mot de passe incorrect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, "")
			rec := f.do(http.MethodPost, "/login", url.Values{"email": {tt.email}, "password": {tt.password}})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Contains(t, rec.Body.String(), tt.wantBody)

			token, _ := f.creds.Get("token")
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantToken != "", f.store.IsAuthenticated())
			if tt.wantToken != "" {
				usr, ok := f.store.User()
				require.True(t, ok)
				assert.Equal(t, 1, usr.ID)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	f := setup(t, "tok-os")

	rec := f.do(http.MethodPost, "/logout")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, nav.LoginPath, rec.Header().Get("Location"))
	assert.False(t, f.store.IsAuthenticated())
	_, ok := f.creds.Get("token")
	assert.False(t, ok)

	// twice is fine
	rec = f.do(http.MethodPost, "/logout")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestToggleNotification(t *testing.T) {
	f := setup(t, "tok-os")
	f.backend.JSON("PUT /notifications/{id}", http.StatusOK, notification.Response{ID: 4, Status: notification.StatusRead})

	rec := f.do(http.MethodPost, "/notification/4/toggle")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/notification", rec.Header().Get("Location"))
	assert.Equal(t, 1, f.backend.Calls("PUT /notifications/{id}"))

	rec = f.do(http.MethodPost, "/notification/lol/toggle")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleNotification_notAuthenticated(t *testing.T) {
	f := setup(t, "")
	f.backend.JSON("PUT /notifications/{id}", http.StatusOK, nil)

	rec := f.do(http.MethodPost, "/notification/4/toggle")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, nav.LoginPath, rec.Header().Get("Location"))
	assert.Zero(t, f.backend.Calls("PUT /notifications/{id}"))
}

func TestSelectSprint(t *testing.T) {
	type sprintTest struct {
		name         string
		token        string
		sprint       string
		wantLocation string
		wantSelected int
		wantToast    toastsvc.Toast
	}
	tests := []sprintTest{
		{
			name:         "selected",
			token:        "tok-pl",
			sprint:       "7",
			wantLocation: "/preparation/sprint",
			wantSelected: 7,
			wantToast:    toastsvc.Toast{Level: toastsvc.LevelSuccess, Message: "Sprint 7 sélectionné"},
		},
		{
			name:         "invalid",
			token:        "tok-pl",
			sprint:       "-1",
			wantLocation: "/preparation/sprint",
			wantToast:    toastsvc.Toast{Level: toastsvc.LevelWarning, Message: msgInvalidSprint},
		},
		{
			name:         "unknown",
			token:        "tok-pl",
			sprint:       "8",
			wantLocation: "/preparation/sprint",
			wantToast:    toastsvc.Toast{Level: toastsvc.LevelError, Message: msgSprintUnknown},
		},
		{
			name:         "role mismatch",
			token:        "tok-os",
			sprint:       "7",
			wantLocation: nav.HomePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.token)
			f.backend.Handle("GET /sprint/{id}", func(w http.ResponseWriter, r *http.Request) {
				if r.PathValue("id") != "7" {
					testutil.WriteJSON(w, http.StatusNotFound, nil)
					return
				}
				testutil.WriteJSON(w, http.StatusOK, sprint.Sprint{ID: 7})
			})

			rec := f.do(http.MethodPost, "/preparation/sprint", url.Values{"sprint": {tt.sprint}})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))

			id, ok := f.store.SelectedSprintID()
			assert.Equal(t, tt.wantSelected != 0, ok)
			assert.Equal(t, tt.wantSelected, id)

			toasts := f.toasts.Drain()
			if tt.wantToast != (toastsvc.Toast{}) {
				assert.Contains(t, toasts, tt.wantToast)
			} else {
				assert.Empty(t, toasts)
			}
		})
	}
}
