// Package main provides the entry point for qreader-cli.
//
// qreader-cli is a terminal client for a QReader server. It derives the
// AuthToken from the password at login, keeps it in a local Badger store
// and signs every request with a short-lived X-QReader-Token.
//
// Usage:
//
//	qreader-cli login
//	qreader-cli check
//	qreader-cli --server https://reader.example.com info
//	qreader-cli api get /api/checktoken
package main
