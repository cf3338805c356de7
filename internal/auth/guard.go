package auth

import (
	"github.com/tmcfarlane/inkwell/internal/session"
)

// Decision is the outcome of a sign-in check: either the caller may
// proceed, or it must stop, set the flash message, and redirect. Modeling
// the guard as a value the handler inspects keeps the control flow
// explicit -- nothing aborts a handler from inside a helper.
type Decision struct {
	// Allowed is true when the session is signed in.
	Allowed bool

	// Location is where to redirect when not allowed.
	Location string

	// Message is the flash to set when not allowed.
	Message string
}

// RequireSignedIn checks whether the session holds a signed-in user.
// Anonymous sessions get a redirect-to-home decision with the standard
// flash message; the guarded operation must not run.
func RequireSignedIn(sess *session.Data) Decision {
	if sess != nil && sess.SignedIn() {
		return Decision{Allowed: true}
	}
	return Decision{
		Location: "/",
		Message:  "You must be signed in to do that.",
	}
}
