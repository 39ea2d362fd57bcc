package nav

import (
	"context"

	"github.com/trezcool/projectgl/core/user"
)

// Outcome of a guard check.
type Outcome int

const (
	Permitted Outcome = iota
	// DeniedLogin sends an unauthenticated client to the login route.
	DeniedLogin
	// DeniedAuthenticated sends an authenticated client away from the login route.
	DeniedAuthenticated
	// DeniedRole sends a client holding none of the allowed roles home.
	DeniedRole
)

func (o Outcome) String() string {
	switch o {
	case Permitted:
		return "permitted"
	case DeniedLogin:
		return "denied: login required"
	case DeniedAuthenticated:
		return "denied: already authenticated"
	case DeniedRole:
		return "denied: role mismatch"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict on a transition. Redirect is empty when permitted.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Permitted reports whether the navigation may proceed to the requested route.
func (d Decision) Permitted() bool {
	return d.Outcome == Permitted
}

// Session is the part of the session the guard reads.
type Session interface {
	WaitLoaded(ctx context.Context) error
	IsAuthenticated() bool
	User() (user.User, bool)
}

// Guard authorizes transitions. It keeps no state: each Check reads the session anew.
type Guard struct {
	session Session
}

// NewGuard returns a guard deciding on the auth state of s.
func NewGuard(s Session) *Guard {
	return &Guard{session: s}
}

// Check decides whether the client may enter to. It first waits for any in-flight user
// load, so the decision sees the loaded roles. The only error is ctx ending while
// waiting, in which case no decision is made.
func (g *Guard) Check(ctx context.Context, to Entry) (Decision, error) {
	if err := g.session.WaitLoaded(ctx); err != nil {
		return Decision{}, err
	}

	authenticated := g.session.IsAuthenticated()
	isLogin := to.Path == LoginPath

	switch {
	case !isLogin && !authenticated:
		return Decision{Outcome: DeniedLogin, Redirect: LoginPath}, nil
	case isLogin && authenticated:
		return Decision{Outcome: DeniedAuthenticated, Redirect: HomePath}, nil
	case to.Restricted():
		// an absent user holds no roles
		usr, _ := g.session.User()
		if !usr.HasAnyRole(to.Roles...) {
			return Decision{Outcome: DeniedRole, Redirect: HomePath}, nil
		}
	}
	return Decision{Outcome: Permitted}, nil
}
