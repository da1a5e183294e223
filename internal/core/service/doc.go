// Package service provides domain services for QReader.
//
// AuthService is the server side of the token protocol. It holds the
// credential configured for this server, checks the X-QReader-Token of
// each request against the accepted window, and lets a config reload
// swap the credential without restarting.
//
// Services are safe for concurrent use.
package service
