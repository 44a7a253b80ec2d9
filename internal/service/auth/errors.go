package auth

import "errors"

// Common authentication service errors. The middleware matches these
// exhaustively; anything else is treated as an internal failure.
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrPrincipalMissing indicates a valid token carried no usable principal
	ErrPrincipalMissing = errors.New("authentication token carries no principal")
)
