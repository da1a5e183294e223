// Package qtoken implements the QReader request token protocol.
//
// The client never sends its password. It derives a long-lived secret
// from the password once, stores it, and derives a short-lived token
// from that secret for every API request.
//
// Token Format:
//
//   - AuthToken: hex(Digest(password + salt)), kept by the client
//   - TimeSlot:  UTC YYYYMMDDHH followed by the 2-digit slot index
//     within the hour (12 characters)
//   - ApiToken:  hex(Digest(hex(Digest(YYYYMM + AuthToken)) + TimeSlot + salt)),
//     sent in the X-QReader-Token header
//
// Verification:
//
//   - The server recomputes ApiToken from its own AuthToken for the
//     current slot and its neighbours, and for adjacent months
//   - Tokens outside that band are rejected; no server-side state is kept
//
// Security:
//
//   - Salt is a single shared constant and AuthToken is one hash round.
//     KDFArgon2id replaces the plain hash when both ends opt in.
//   - SHA-1 is the default digest for compatibility with deployed
//     clients; SHA256 is available for new deployments.
package qtoken
