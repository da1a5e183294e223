// Package handler provides the HTTP handlers behind /api/.
//
// Every API response is a Result envelope written with HTTP 200, even on
// error; clients branch on error.errcode, never on the status line.
package handler
