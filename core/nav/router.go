package nav

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core"
)

// MaxRedirects bounds the redirects a single navigation follows.
const MaxRedirects = 10

var ErrRedirectLoop = errors.New("too many redirects")

type (
	// Step is a redirect taken while navigating. Outcome is the guard's reason, or
	// Permitted when the route itself redirects.
	Step struct {
		From    string
		To      string
		Outcome Outcome
	}

	// Location is where a navigation ended.
	Location struct {
		Requested string
		Path      string
		Entry     Entry
		Trail     []Step
	}

	// Router moves the client between the routes of its table, asking the guard before
	// every entry.
	Router struct {
		table  *Table
		guard  *Guard
		logger core.Logger

		mu        sync.RWMutex
		seq       uint64
		current   Location
		listeners []func(Location)
	}
)

// Redirected reports whether the navigation ended elsewhere than requested.
func (l Location) Redirected() bool {
	return len(l.Trail) > 0
}

func NewRouter(table *Table, guard *Guard, logger core.Logger) *Router {
	return &Router{table: table, guard: guard, logger: logger}
}

// OnChange registers fn to be called after every navigation that becomes current.
func (r *Router) OnChange(fn func(Location)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Current returns the location of the last completed navigation.
func (r *Router) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Navigate resolves p, following route and guard redirects, and returns where the
// client ends up. The result becomes current unless a later navigation started in the
// meantime. It fails only when ctx ends while the guard waits, or on a redirect loop.
func (r *Router) Navigate(ctx context.Context, p string) (Location, error) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	loc := Location{Requested: p}
	target := p
	for hops := 0; hops <= MaxRedirects; hops++ {
		entry := r.table.Resolve(target)
		if entry.Redirect != "" {
			loc.Trail = append(loc.Trail, Step{From: entry.Path, To: entry.Redirect, Outcome: Permitted})
			target = entry.Redirect
			continue
		}

		decision, err := r.guard.Check(ctx, entry)
		if err != nil {
			return Location{}, errors.Wrapf(err, "navigating to %s", p)
		}
		if !decision.Permitted() {
			loc.Trail = append(loc.Trail, Step{From: entry.Path, To: decision.Redirect, Outcome: decision.Outcome})
			target = decision.Redirect
			continue
		}

		loc.Path = entry.Path
		loc.Entry = entry
		r.commit(seq, loc)
		return loc, nil
	}
	return Location{}, errors.Wrapf(ErrRedirectLoop, "navigating to %s", p)
}

func (r *Router) commit(seq uint64, loc Location) {
	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return
	}
	r.current = loc
	listeners := append(([]func(Location))(nil), r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(loc)
	}
}

// Push navigates to p in the background. It never blocks.
func (r *Router) Push(p string) {
	go func() {
		if _, err := r.Navigate(context.Background(), p); err != nil {
			r.logger.Error("Error while navigating", err)
		}
	}()
}
