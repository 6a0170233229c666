package bot

import (
	"context"
	"regexp"
	"strings"
)

// Dispatchable is anything that can take part in a reduce pass: leaf handler
// functions and nested Routers both satisfy it, which is what makes routers
// composable to arbitrary depth.
type Dispatchable interface {
	Reduce(ctx context.Context, ev Event, res Responder, pb PostBack, scopePath string) (Resolution, error)
}

// HandlerFunc is a leaf handler. It receives the event, the response sink and
// a post-back callback already scoped to the route tree position it was
// registered at.
type HandlerFunc func(ctx context.Context, ev Event, res Responder, pb PostBack) (Resolution, error)

// Reduce implements Dispatchable. Leaf handlers ignore the scope path; the
// router resolves it before invoking them.
func (f HandlerFunc) Reduce(ctx context.Context, ev Event, res Responder, pb PostBack, _ string) (Resolution, error) {
	return f(ctx, ev, res, pb)
}

// Matcher is a predicate over the event, evaluated at most once per route per
// dispatch. Matchers may perform I/O; the dispatch loop waits for them.
type Matcher func(ctx context.Context, ev Event) (bool, error)

// MatchText matches when the tokenized message text equals text.
func MatchText(text string) Matcher {
	want := normalizeText(text)
	return func(_ context.Context, ev Event) (bool, error) {
		return ev.IsMessage() && ev.NormalizedText() == want, nil
	}
}

// MatchRegexp matches the tokenized message text against re.
func MatchRegexp(re *regexp.Regexp) Matcher {
	return func(_ context.Context, ev Event) (bool, error) {
		return ev.IsMessage() && re.MatchString(ev.NormalizedText()), nil
	}
}

// MatchFunc adapts a plain predicate.
func MatchFunc(fn func(ctx context.Context, ev Event) (bool, error)) Matcher {
	return Matcher(fn)
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Exit carries the action and data a handler chain delegated to the exit
// listeners of its route.
type Exit struct {
	Action string
	Data   interface{}
}

// ExitListener post-processes a signaled exit action. Returning Continue
// passes the exit to the next matching listener, Stop consumes it, and ExitTo
// replaces it with a new exit action that propagates to the caller.
type ExitListener func(ctx context.Context, ev Event, exit Exit, res Responder, pb PostBack) (Resolution, error)

type exitEntry struct {
	name     string
	listener ExitListener
}

// reducer is one handler slot within a route with its compiled action match.
// Plain handlers require the whole relative action to match the route path;
// sub-routers match on prefix so interior routing can continue.
type reducer struct {
	handler Dispatchable
	sub     *Router
	match   func(action string) bool
}

// Route is one registration unit: a normalized path, an optional matcher, the
// ordered reducers and the exit listeners attached to it. Routes are built
// once during tree construction and never mutated afterwards except through
// OnExit chaining.
type Route struct {
	path     string
	matcher  Matcher
	reducers []reducer
	exits    []exitEntry
}

// Path returns the normalized path the route was registered at.
func (rt *Route) Path() string { return rt.path }

// OnExit registers a listener for the named exit action. The wildcard name
// "*" matches any exit action. Listeners run in registration order.
func (rt *Route) OnExit(name string, listener ExitListener) *Route {
	rt.exits = append(rt.exits, exitEntry{name: name, listener: listener})
	return rt
}

// resolveExit runs the route's exit listeners for the signaled exit. The
// first listener to return Stop consumes the exit; ExitTo from a listener
// replaces it and propagates outward immediately. When no listener consumes
// the exit it propagates unchanged.
func (rt *Route) resolveExit(ctx context.Context, ev Event, exit Exit, res Responder, pb PostBack) (Resolution, error) {
	for _, e := range rt.exits {
		if e.name != exit.Action && e.name != WildcardExit {
			continue
		}
		r, err := e.listener(ctx, ev, exit, res, pb)
		if err != nil {
			return Resolution{}, err
		}
		if _, _, ok := r.Exit(); ok {
			return r, nil
		}
		if r.Terminal() {
			return Stop(), nil
		}
	}
	return ExitTo(exit.Action, exit.Data), nil
}

func compileMatch(path string, prefix bool) func(string) bool {
	if path == WildcardPath {
		return func(string) bool { return true }
	}
	if prefix {
		return func(action string) bool {
			return action == path || strings.HasPrefix(action, path+"/")
		}
	}
	return func(action string) bool { return action == path }
}
