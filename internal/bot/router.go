// Package bot implements the conversational dispatch engine: an ordered tree
// of routes matched against the action path resolved from an inbound event,
// with exit-action delegation between nested scopes and address rewriting on
// the reply callback when a sub-tree is entered.
package bot

import "context"

// ActionObserver is notified once per dispatch when an action is resolved
// anywhere in the route tree, with the fully composed absolute path. Nested
// routers bubble their observations to the router the dispatch started on.
type ActionObserver func(senderID, absolutePath, text string, ev Event)

// Router holds an ordered registry of routes. Registration happens once at
// startup; dispatch never mutates the registry, so a single Router may serve
// any number of concurrent events.
type Router struct {
	routes    []*Route
	observers []ActionObserver
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{}
}

// OnAction registers an observer for resolved actions.
func (r *Router) OnAction(fn ActionObserver) {
	r.observers = append(r.observers, fn)
}

// Use registers handlers on the wildcard path. Every dispatch reaches them
// unless an earlier route terminally handles the event.
func (r *Router) Use(handlers ...Dispatchable) *Route {
	return r.register(WildcardPath, nil, handlers)
}

// UseAt registers handlers on a path. Plain handlers run when the resolved
// action equals the path; nested routers run when the path is a prefix of the
// resolved action and continue routing on the remainder.
func (r *Router) UseAt(path string, handlers ...Dispatchable) *Route {
	if path == "" {
		path = WildcardPath
	} else if path != WildcardPath {
		path = NormalizePath(path)
	}
	return r.register(path, nil, handlers)
}

// UseMatched registers handlers guarded by a matcher. The matcher governs
// dispatch when the event carries no resolvable action or the path is the
// wildcard; otherwise the path is the discriminator, same as UseAt.
func (r *Router) UseMatched(path string, matcher Matcher, handlers ...Dispatchable) *Route {
	if path == "" {
		path = WildcardPath
	} else if path != WildcardPath {
		path = NormalizePath(path)
	}
	return r.register(path, matcher, handlers)
}

func (r *Router) register(path string, matcher Matcher, handlers []Dispatchable) *Route {
	rt := &Route{path: path, matcher: matcher}
	for _, h := range handlers {
		sub, _ := h.(*Router)
		rt.reducers = append(rt.reducers, reducer{
			handler: h,
			sub:     sub,
			match:   compileMatch(path, sub != nil),
		})
	}
	r.routes = append(r.routes, rt)
	return rt
}

// Paths returns the registered route paths in registration order.
func (r *Router) Paths() []string {
	paths := make([]string, len(r.routes))
	for i, rt := range r.routes {
		paths[i] = rt.path
	}
	return paths
}

// dispatch is the per-event context shared by every router the event passes
// through. It carries the observer set of the router the dispatch started on
// so nested routers bubble to the root, and guards that observers fire at
// most once per dispatch.
type dispatch struct {
	observers []ActionObserver
	fired     bool
}

type dispatchKey struct{}

func (d *dispatch) observe(ev Event, absolutePath string) {
	if d.fired || absolutePath == "" {
		return
	}
	d.fired = true
	for _, fn := range d.observers {
		fn(ev.SenderID(), absolutePath, ev.Text(), ev)
	}
}

// Reduce dispatches one event through the route tree rooted at this router.
//
// Routes are evaluated strictly in registration order and the walk is
// sequential: a later route never starts while an earlier handler is still
// pending. The returned resolution tells the caller what happened: Stop when
// a route terminally handled the event, ExitTo when the tree delegated an
// unconsumed exit action outward, Continue when nothing matched.
//
// pb may be nil; scopePath is "/" at the root and the composed absolute
// mount path when the router runs as a handler inside another router. A
// handler error aborts the dispatch and propagates unchanged.
func (r *Router) Reduce(ctx context.Context, ev Event, res Responder, pb PostBack, scopePath string) (Resolution, error) {
	if res == nil {
		res = NopResponder{}
	}
	if pb == nil {
		pb = NopPostBack()
	}
	scopePath = NormalizePath(scopePath)

	d, ok := ctx.Value(dispatchKey{}).(*dispatch)
	if !ok {
		d = &dispatch{observers: r.observers}
		ctx = context.WithValue(ctx, dispatchKey{}, d)
	}

	action := ev.Action(scopePath)
	spb := ScopePostBack(pb, scopePath)

	for _, rt := range r.routes {
		applicable, err := rt.applicable(ctx, ev, action)
		if err != nil {
			return Resolution{}, err
		}

		for _, red := range applicable {
			if red.sub != nil {
				childScope := JoinPath(scopePath, rt.path)
				resn, err := red.handler.Reduce(ctx, ev, res, spb, childScope)
				if err != nil {
					return Resolution{}, err
				}
				if resn.Terminal() {
					return Stop(), nil
				}
				if exitAction, data, ok := resn.Exit(); ok {
					out, err := rt.finishExit(ctx, ev, Exit{Action: exitAction, Data: data}, res, spb)
					if err == nil && out.Terminal() && action != "" {
						d.observe(ev, JoinPath(scopePath, action))
					}
					return out, err
				}
				// Nothing inside the sub-tree consumed the event. Record the
				// observed action and fall through as if the reducer had not
				// matched.
				if action != "" {
					d.observe(ev, JoinPath(scopePath, action))
				}
				continue
			}

			resn, err := red.handler.Reduce(ctx, ev, res, spb, scopePath)
			if err != nil {
				return Resolution{}, err
			}
			if exitAction, data, ok := resn.Exit(); ok {
				out, err := rt.finishExit(ctx, ev, Exit{Action: exitAction, Data: data}, res, spb)
				if err == nil && out.Terminal() && action != "" {
					d.observe(ev, JoinPath(scopePath, action))
				}
				return out, err
			}
			if resn.Terminal() {
				if action != "" {
					d.observe(ev, JoinPath(scopePath, action))
				}
				return Stop(), nil
			}
			// Continue: the handler declined, try the next reducer or route.
		}
	}

	return Continue(), nil
}

// finishExit resolves a signaled exit against the route's listeners. A
// consumed exit terminally handles the event; an unconsumed or re-signaled
// one propagates to the caller, which is the parent scope's continuation.
func (rt *Route) finishExit(ctx context.Context, ev Event, exit Exit, res Responder, pb PostBack) (Resolution, error) {
	out, err := rt.resolveExit(ctx, ev, exit, res, pb)
	if err != nil {
		return Resolution{}, err
	}
	if _, _, ok := out.Exit(); ok {
		return out, nil
	}
	return Stop(), nil
}

// applicable resolves which reducers of the route apply to this event.
//
// When the route has a matcher and either no action resolved for this scope
// or the route path is the wildcard, the matcher is evaluated exactly once
// and decides for all reducers. Otherwise the resolved action (or the root
// path when there is none) is matched against each reducer's compiled path
// pattern.
func (rt *Route) applicable(ctx context.Context, ev Event, action string) ([]reducer, error) {
	if rt.matcher != nil && (action == "" || rt.path == WildcardPath) {
		ok, err := rt.matcher(ctx, ev)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return rt.reducers, nil
	}

	lookup := action
	if lookup == "" {
		lookup = "/"
	}
	var applicable []reducer
	for _, red := range rt.reducers {
		if red.match(lookup) {
			applicable = append(applicable, red)
		}
	}
	return applicable, nil
}
