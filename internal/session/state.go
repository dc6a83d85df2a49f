package session

// State is the lifecycle phase of a Controller.
type State int

const (
	Uninitialized State = iota
	Loading
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Decision is what a protected view should do for the current state.
type Decision int

const (
	// GuardPending renders a placeholder until initialisation finishes.
	GuardPending Decision = iota
	// GuardRedirect sends the user to the login view.
	GuardRedirect
	// GuardAllow renders the protected content.
	GuardAllow
)

func (d Decision) String() string {
	switch d {
	case GuardPending:
		return "pending"
	case GuardRedirect:
		return "redirect"
	case GuardAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Navigator moves the user to the login view.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func()

// ToLogin calls f.
func (f NavigatorFunc) ToLogin() { f() }
