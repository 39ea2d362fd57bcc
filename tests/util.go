package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
)

// UserResponse builds a backend user payload with the given authorities.
func UserResponse(id int, firstName, lastName string, authorities ...string) user.Response {
	auths := make([]user.Authority, 0, len(authorities))
	for _, a := range authorities {
		auths = append(auths, user.Authority{Authority: a})
	}
	return user.Response{
		ID:          id,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       strings.ToLower(firstName) + "@test.fr",
		Gender:      user.GenderMale,
		Option:      "LD",
		Authorities: auths,
		GradePast:   12.5,
		Enabled:     true,
	}
}

// Entry is a message recorded by Logger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records every entry instead of printing it.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Count returns how many entries were logged at level.
func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Backend is a fake of the platform's REST backend. Tokens map bearer credentials to
// the profile /auth/getme answers with; Passwords map emails to "password:token".
type Backend struct {
	*httptest.Server

	mu        sync.Mutex
	mux       *http.ServeMux
	tokens    map[string]user.Response
	passwords map[string][2]string
	calls     map[string]*int64
}

// NewBackend starts a fake backend serving /auth/signin and /auth/getme; it is closed
// when the test ends.
func NewBackend(t *testing.T) *Backend {
	b := &Backend{
		mux:       http.NewServeMux(),
		tokens:    make(map[string]user.Response),
		passwords: make(map[string][2]string),
		calls:     make(map[string]*int64),
	}
	b.Handle("POST /auth/signin", b.signIn)
	b.Handle("GET /auth/getme", b.getMe)
	b.Server = httptest.NewServer(b.mux)
	t.Cleanup(b.Close)
	return b
}

// URL returns the base API URL of the backend.
func (b *Backend) APIURL() string { return b.Server.URL }

// AddUser registers a user able to sign in with email/password, receiving token.
func (b *Backend) AddUser(resp user.Response, password, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = resp
	b.passwords[resp.Email] = [2]string{password, token}
}

// Handle registers h for pattern and counts its calls.
func (b *Backend) Handle(pattern string, h http.HandlerFunc) {
	b.mu.Lock()
	counter, ok := b.calls[pattern]
	if !ok {
		counter = new(int64)
		b.calls[pattern] = counter
	}
	b.mu.Unlock()
	if ok {
		return // already registered; ServeMux panics on duplicates
	}
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(counter, 1)
		h(w, r)
	})
}

// JSON registers a handler answering pattern with code and body.
func (b *Backend) JSON(pattern string, code int, body interface{}) {
	b.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, code, body)
	})
}

// Calls returns how many requests pattern served.
func (b *Backend) Calls(pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.calls[pattern]; ok {
		return int(atomic.LoadInt64(c))
	}
	return 0
}

func (b *Backend) signIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b.mu.Lock()
	creds, ok := b.passwords[req.Email]
	b.mu.Unlock()
	if !ok || creds[0] != req.Password {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad credentials"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"token": creds[1]})
}

func (b *Backend) getMe(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	resp, ok := b.tokens[token]
	b.mu.Unlock()
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

func WriteJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			panic(fmt.Sprintf("encoding %T: %v", body, err))
		}
	}
}
