// Package connection talks to a QReader server on behalf of qreader-cli.
//
// HTTPClient attaches a freshly computed X-QReader-Token to every request
// and decodes the server's result envelope. Session owns the durable
// authToken and implements the login, check and logout flow on top of it.
package connection
