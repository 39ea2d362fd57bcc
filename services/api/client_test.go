package apisvc

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/services/toast"
	"github.com/trezcool/projectgl/storage"
	"github.com/trezcool/projectgl/storage/inmem"
	"github.com/trezcool/projectgl/tests"
)

const credKey = "token"

type fixture struct {
	svc     *Services
	backend *testutil.Backend
	creds   storage.Storage
	toasts  *toastsvc.Queue
	logger  *testutil.Logger
}

func setup(t *testing.T, strict bool) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	conf := &core.Config{
		StrictRoles: strict,
		API:         core.APIConfig{BaseURL: backend.APIURL() + "/", Timeout: 5 * time.Second},
		Credential:  core.CredentialConfig{Key: credKey},
	}
	f := &fixture{
		backend: backend,
		creds:   inmemstore.New(),
		toasts:  toastsvc.NewQueue(0),
		logger:  &testutil.Logger{},
	}
	f.svc = New(conf, f.creds, f.toasts, f.logger)
	return f
}

func TestClient_bearerDecoration(t *testing.T) {
	f := setup(t, false)
	var gotAuth, gotID atomic.Value
	f.backend.Handle("GET /echo", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotID.Store(r.Header.Get(RequestIDHeader))
		testutil.WriteJSON(w, http.StatusOK, nil)
	})

	require.NoError(t, f.svc.Client.get(context.Background(), "/echo", nil, nil))
	assert.Equal(t, "", gotAuth.Load())
	assert.NotEmpty(t, gotID.Load())

	// the credential is read on every request
	require.NoError(t, f.creds.Set(credKey, "abc"))
	require.NoError(t, f.svc.Client.get(context.Background(), "/echo", nil, nil))
	assert.Equal(t, "Bearer abc", gotAuth.Load())

	require.NoError(t, f.creds.Remove(credKey))
	require.NoError(t, f.svc.Client.get(context.Background(), "/echo", nil, nil))
	assert.Equal(t, "", gotAuth.Load())
}

func TestClient_interception(t *testing.T) {
	type interceptTest struct {
		name             string
		code             int
		wantWarning      bool
		wantUnauthorized bool
	}
	tests := []interceptTest{
		{name: "ok", code: http.StatusOK},
		{name: "forbidden", code: http.StatusForbidden, wantWarning: true},
		{name: "unauthorized", code: http.StatusUnauthorized, wantUnauthorized: true},
		{name: "server error", code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, false)
			f.backend.JSON("GET /resource", tt.code, map[string]string{"error": "nope"})
			var unauthorized int32
			f.svc.LogoutOnUnauthorized(func(string) { atomic.AddInt32(&unauthorized, 1) })

			err := f.svc.Client.get(context.Background(), "/resource", nil, nil)
			if tt.code == http.StatusOK {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.code, StatusCode(err))
				var sErr *StatusError
				require.True(t, errors.As(err, &sErr))
				assert.Contains(t, sErr.Body, "nope")
			}

			toasts := f.toasts.Drain()
			if tt.wantWarning {
				assert.Equal(t, []toastsvc.Toast{{Level: toastsvc.LevelWarning, Message: MsgForbidden}}, toasts)
			} else {
				assert.Empty(t, toasts)
			}
			assert.Equal(t, tt.wantUnauthorized, atomic.LoadInt32(&unauthorized) == 1)
		})
	}
}

func TestClient_interception_reportsSentCredential(t *testing.T) {
	f := setup(t, false)
	require.NoError(t, f.creds.Set(credKey, "old"))
	f.backend.Handle("GET /resource", func(w http.ResponseWriter, r *http.Request) {
		// a login lands while the rejected request is still in flight
		assert.NoError(t, f.creds.Set(credKey, "new"))
		testutil.WriteJSON(w, http.StatusUnauthorized, nil)
	})
	var got []string
	f.svc.LogoutOnUnauthorized(func(token string) { got = append(got, token) })

	err := f.svc.Client.get(context.Background(), "/resource", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, []string{"old"}, got)

	require.NoError(t, f.creds.Remove(credKey))
	f.backend.JSON("GET /anonymous", http.StatusUnauthorized, nil)
	_ = f.svc.Client.get(context.Background(), "/anonymous", nil, nil)
	assert.Equal(t, []string{"old", ""}, got)
}

func TestClient_nullBody(t *testing.T) {
	f := setup(t, false)
	f.backend.JSON("GET /null", http.StatusOK, nil)

	out := &struct{ ID int }{ID: 4}
	require.NoError(t, f.svc.Client.get(context.Background(), "/null", nil, out))
	assert.Equal(t, 4, out.ID)
}

func TestClient_transportError(t *testing.T) {
	f := setup(t, false)
	f.backend.Close()

	err := f.svc.Client.get(context.Background(), "/anything", nil, nil)
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}
