// Package domain defines the core domain models for QReader.
//
// QReader keeps no server-side session state, so the domain is small:
//
//   - APIError: the {errcode, errmsg} pair carried in every API response
//   - Error catalogue: the fixed errcodes clients switch on
//
// Errcode ranges: 1xx authentication and request errors, 4xx system
// errors, 999 anything unexpected. Clients treat errcode 100 as
// "log in again".
package domain
