package authz

import "errors"

// ErrForbidden deliberately carries no detail: callers must not be able to
// tell a missing capability apart from a confidentiality block.
var ErrForbidden = errors.New("Forbidden")
