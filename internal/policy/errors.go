// server/internal/policy/errors.go
package policy

import "errors"

// Denials are ordinary return values, never panics. Handlers map them to
// HTTP status codes in one place; storage faults are the only errors outside
// this set.
var (
	// ErrNotFound covers both "no such entity" and "entity exists but the
	// caller has no visibility" so farm ids cannot be enumerated.
	ErrNotFound            = errors.New("not found")
	ErrNotOwner            = errors.New("not the owner of this farm")
	ErrNoActiveAssociation = errors.New("no active association with this farm")
	ErrRoleNotPermitted    = errors.New("role not permitted for this action")
	ErrNotAuthor           = errors.New("only the author may perform this action")
	ErrConflict            = errors.New("association already exists")
	ErrInvalidTransition   = errors.New("invitation already resolved")
	// ErrRoleMismatch: the invited user exists but is not a vet.
	ErrRoleMismatch = errors.New("user is not a vet")
)

// IsDenial reports whether err is an authorization verdict rather than a
// storage fault.
func IsDenial(err error) bool {
	for _, d := range []error{
		ErrNotFound, ErrNotOwner, ErrNoActiveAssociation, ErrRoleNotPermitted,
		ErrNotAuthor, ErrConflict, ErrInvalidTransition, ErrRoleMismatch,
	} {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}
