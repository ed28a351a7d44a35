// Package common defines constants and sentinel errors shared by the keygate
// client and server. Callers should match errors with errors.Is.
package common

import "errors"

var (
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrorInvalidIdentity  = errors.New("invalid identity")
	ErrorInvalidAccountID = errors.New("invalid account id")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
