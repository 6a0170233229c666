package bot

type resolutionKind int

const (
	kindStop resolutionKind = iota
	kindContinue
	kindExit
)

// Resolution is the explicit outcome of one handler or exit listener
// invocation. Handlers return it instead of mutating a shared record or
// calling an injected continuation:
//
//   - Stop: the event is terminally handled, dispatch ends.
//   - Continue: the handler did not consume the event, dispatch proceeds to
//     the next applicable reducer or route.
//   - ExitTo: delegate a named exit action to the exit listeners registered
//     on the current route (and outward from there).
type Resolution struct {
	kind   resolutionKind
	action string
	data   interface{}
}

// Stop marks the event as terminally handled.
func Stop() Resolution { return Resolution{kind: kindStop} }

// Continue hands the event back to the dispatch loop unconsumed.
func Continue() Resolution { return Resolution{kind: kindContinue} }

// ExitTo delegates to the exit listeners registered for action on the route
// that invoked the handler. Unconsumed exit actions propagate to the caller.
func ExitTo(action string, data interface{}) Resolution {
	return Resolution{kind: kindExit, action: action, data: data}
}

// Terminal reports whether the resolution ends the dispatch.
func (r Resolution) Terminal() bool { return r.kind == kindStop }

// Continues reports whether the event was left unconsumed.
func (r Resolution) Continues() bool { return r.kind == kindContinue }

// Exit returns the signaled exit action and data. ok is false for Stop and
// Continue resolutions.
func (r Resolution) Exit() (action string, data interface{}, ok bool) {
	if r.kind != kindExit {
		return "", nil, false
	}
	return r.action, r.data, true
}
