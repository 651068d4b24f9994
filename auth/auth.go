// Package auth holds the shared authentication contracts and config. The
// subpackages do the work: jwt signs and parses bearer tokens, password
// hashes credentials and authctx carries claims through request contexts.
package auth

// TokenValidator validates a bearer token and returns its parsed claims.
// Middleware depends on this rather than on a concrete token format.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts a function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}
