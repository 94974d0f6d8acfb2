package authz

// Subject is the authenticated caller's view used for authorization
// decisions. A nil Subject means an anonymous request.
type Subject struct {
	Superuser bool
	Roles     []string
}

type Decision int

const (
	Allowed Decision = iota
	// Anonymous caller: send to the sign-in page.
	DeniedSignIn
	// Authenticated but missing every required role: send to the
	// no-permission page.
	DeniedNoPermission
)

// Check admits the subject iff it is a superuser or holds at least one
// of the required roles. Anonymous subjects are always denied.
func Check(subject *Subject, required ...string) Decision {
	if subject == nil {
		return DeniedSignIn
	}
	if subject.Superuser {
		return Allowed
	}
	for _, role := range subject.Roles {
		for _, want := range required {
			if role == want {
				return Allowed
			}
		}
	}
	return DeniedNoPermission
}
