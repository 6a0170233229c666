package bot

// PostBack pushes a follow-up action back into the route tree on behalf of
// the current sender. Handlers receive a PostBack already scoped to where
// they sit in the tree, so relative targets keep working when a sub-tree is
// mounted somewhere else.
type PostBack interface {
	// Send resolves targetAction against the current scope and delivers it.
	Send(targetAction string, data interface{})

	// Wait reserves a delivery slot now and returns a function performing the
	// actual send later. The returned function applies the same scope
	// resolution as Send, so the reservation survives asynchronous work done
	// between reserving and sending.
	Wait() func(targetAction string, data interface{})
}

type postBack struct {
	send func(targetAction string, data interface{})
}

// NewPostBack adapts a delivery function into a PostBack whose Wait variant
// delivers through the same function.
func NewPostBack(send func(targetAction string, data interface{})) PostBack {
	return &postBack{send: send}
}

func (p *postBack) Send(targetAction string, data interface{}) { p.send(targetAction, data) }

func (p *postBack) Wait() func(string, interface{}) { return p.send }

// NopPostBack discards every send. Used when the caller supplies no delivery
// callback.
func NopPostBack() PostBack {
	return &postBack{send: func(string, interface{}) {}}
}

type scopedPostBack struct {
	parent PostBack
	scope  string
}

// ScopePostBack wraps parent so that targets sent from inside scopePath are
// translated into absolute addresses before leaving the sub-tree. Already
// absolute targets pass through untouched.
func ScopePostBack(parent PostBack, scopePath string) PostBack {
	return &scopedPostBack{parent: parent, scope: NormalizePath(scopePath)}
}

func (s *scopedPostBack) Send(targetAction string, data interface{}) {
	s.parent.Send(AbsolutePath(targetAction, s.scope), data)
}

func (s *scopedPostBack) Wait() func(string, interface{}) {
	deferred := s.parent.Wait()
	scope := s.scope
	return func(targetAction string, data interface{}) {
		deferred(AbsolutePath(targetAction, scope), data)
	}
}
