package domain

// Identity is the opaque user id issued by the auth backend.
type Identity string

func (i Identity) String() string { return string(i) }

func (i Identity) IsZero() bool { return i == "" }

func IdentitiesFromStrings(ss []string) []Identity {
	out := make([]Identity, 0, len(ss))
	for _, s := range ss {
		out = append(out, Identity(s))
	}
	return out
}

func IdentitiesToStrings(ids []Identity) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

// Session is the process-wide authentication state.
type Session struct {
	Identity  Identity
	IsLoading bool
}

func (s Session) Authenticated() bool {
	return !s.IsLoading && !s.Identity.IsZero()
}

type AuthEventKind string

const (
	SignedIn  AuthEventKind = "SIGNED_IN"
	SignedOut AuthEventKind = "SIGNED_OUT"
)

type AuthEvent struct {
	Kind     AuthEventKind
	Identity Identity
}
