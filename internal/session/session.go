// Package session abstracts the authenticated-user state the stores depend
// on. Injecting a Provider keeps the stores free of any ambient singleton and
// lets tests construct them with a fixed user.
package session

// Provider supplies the current user id, if any, and whether the session is
// still being resolved (for example while stored credentials are loading).
type Provider interface {
	// CurrentUser returns the authenticated user's id. ok is false when no
	// user is logged in.
	CurrentUser() (id string, ok bool)

	// IsLoading reports whether the session is still resolving. Store
	// operations are rejected until it returns false.
	IsLoading() bool
}

// Static is a fixed-session Provider for tests and single-user tools.
type Static struct {
	UserID  string
	Loading bool
}

func (s Static) CurrentUser() (string, bool) {
	return s.UserID, s.UserID != ""
}

func (s Static) IsLoading() bool {
	return s.Loading
}
