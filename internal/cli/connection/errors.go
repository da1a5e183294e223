package connection

import "errors"

var (
	// ErrAuthenticationFailure is returned when the server answers errcode 100.
	// The client's OnAuthFailure hook has already run when it is returned.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrNetworkFailure covers transport errors and 404 responses.
	ErrNetworkFailure = errors.New("network error, please check your connection")

	// ErrLoginRejected is returned by Login when the server refuses the token.
	ErrLoginRejected = errors.New("wrong password, or clock differs too much from the server")

	// ErrNotLoggedIn is returned when no authToken is stored.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrEmptyPassword is returned by Login for an empty password.
	ErrEmptyPassword = errors.New("password is empty")
)
