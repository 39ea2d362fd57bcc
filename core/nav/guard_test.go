package nav

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/projectgl/core/user"
)

// fakeSession is a Session whose loading state is driven by the test.
type fakeSession struct {
	mu      sync.Mutex
	authed  bool
	usr     *user.User
	loaded  chan struct{}
	waiting chan struct{}
}

func (s *fakeSession) WaitLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded, waiting := s.loaded, s.waiting
	s.mu.Unlock()
	if loaded == nil {
		return nil
	}
	if waiting != nil {
		close(waiting)
	}
	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *fakeSession) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

func (s *fakeSession) User() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usr == nil {
		return user.User{}, false
	}
	return *s.usr, true
}

func withRoles(roles ...user.Role) *user.User {
	return &user.User{ID: 1, FirstName: "Awe", Roles: roles}
}

func TestGuard_Check(t *testing.T) {
	table := NewAppTable()

	type guardTest struct {
		name    string
		session *fakeSession
		path    string
		want    Decision
	}
	tests := []guardTest{
		{
			name:    "unauthenticated to profile",
			session: &fakeSession{},
			path:    "/profile",
			want:    Decision{Outcome: DeniedLogin, Redirect: LoginPath},
		},
		{
			name:    "unauthenticated to login",
			session: &fakeSession{},
			path:    LoginPath,
			want:    Decision{Outcome: Permitted},
		},
		{
			name:    "authenticated to login",
			session: &fakeSession{authed: true, usr: withRoles(user.RoleStudent)},
			path:    LoginPath,
			want:    Decision{Outcome: DeniedAuthenticated, Redirect: HomePath},
		},
		{
			name:    "authenticated to open route",
			session: &fakeSession{authed: true, usr: withRoles(user.RoleStudent)},
			path:    "/teams",
			want:    Decision{Outcome: Permitted},
		},
		{
			name:    "open route without user",
			session: &fakeSession{authed: true},
			path:    "/teams",
			want:    Decision{Outcome: Permitted},
		},
		{
			name:    "matching role",
			session: &fakeSession{authed: true, usr: withRoles(user.RoleUEReferent)},
			path:    "/preparation/sprint",
			want:    Decision{Outcome: Permitted},
		},
		{
			name:    "one of several roles",
			session: &fakeSession{authed: true, usr: withRoles(user.RoleStudent, user.RoleTechnicalCoach)},
			path:    "/notation/project",
			want:    Decision{Outcome: Permitted},
		},
		{
			name:    "role mismatch",
			session: &fakeSession{authed: true, usr: withRoles(user.RoleStudent)},
			path:    "/preparation",
			want:    Decision{Outcome: DeniedRole, Redirect: HomePath},
		},
		{
			name:    "no roles",
			session: &fakeSession{authed: true, usr: withRoles()},
			path:    "/flag/flagView",
			want:    Decision{Outcome: DeniedRole, Redirect: HomePath},
		},
		{
			name:    "restricted route without user fails closed",
			session: &fakeSession{authed: true},
			path:    "/flag/flagView",
			want:    Decision{Outcome: DeniedRole, Redirect: HomePath},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewGuard(tt.session).Check(context.Background(), table.Resolve(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuard_Check_failsClosedForEveryRestrictedRoute(t *testing.T) {
	table := NewAppTable()
	guard := NewGuard(&fakeSession{authed: true})
	for _, p := range table.Paths() {
		e, _ := table.Match(p)
		if !e.Restricted() {
			continue
		}
		d, err := guard.Check(context.Background(), e)
		require.NoError(t, err)
		assert.Equal(t, DeniedRole, d.Outcome, p)
	}
}

func TestGuard_Check_suspendsUntilLoaded(t *testing.T) {
	s := &fakeSession{authed: true, loaded: make(chan struct{}), waiting: make(chan struct{})}
	guard := NewGuard(s)
	entry := NewAppTable().Resolve("/preparation")

	decisions := make(chan Decision, 2)
	go func() {
		d, err := guard.Check(context.Background(), entry)
		assert.NoError(t, err)
		decisions <- d
	}()
	<-s.waiting

	select {
	case d := <-decisions:
		t.Fatalf("Check() decided %v while loading", d)
	case <-time.After(20 * time.Millisecond):
	}

	s.mu.Lock()
	s.usr = withRoles(user.RoleUEReferent)
	s.mu.Unlock()
	close(s.loaded)

	assert.Equal(t, Decision{Outcome: Permitted}, <-decisions)
	select {
	case d := <-decisions:
		t.Fatalf("Check() decided twice, second %v", d)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestGuard_Check_cancelledWhileSuspended(t *testing.T) {
	s := &fakeSession{authed: true, loaded: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := NewGuard(s).Check(ctx, NewAppTable().Resolve("/teams"))
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, Decision{}, d)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "permitted", Permitted.String())
	assert.Equal(t, "denied: role mismatch", DeniedRole.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
