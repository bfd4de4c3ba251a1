// Package services implements the login handshake and the authenticated operations of the music service.
//
// # Session Protocol
//
// [PlayService.Login] runs two exchanges, each attempted exactly once:
//
//  1. Credential exchange: POST /accounts/ClientLogin on the identity host with the
//     service, Email and Passwd form fields. A 200 body carries the bearer token on a line
//     beginning with "Auth=".
//  2. Token exchange: POST /music/listen on the app host with an
//     "Authorization: GoogleLogin auth=<token>" header. A 200 response sets the xt and sjsaid cookies.
//
// A 403 at either step is [models.LoginBadCredentials]; any other non-200 status, a missing token
// marker or a missing cookie is [models.LoginFailure]. Neither is an error: errors are reserved
// for invalid input and transport failures.
//
// # Authenticated Operations
//
// Search, PlayURL, LoadAllTracks and LoadAllPlaylists each validate their input and session before
// any I/O, require status 200 and decode the JSON body:
//   - [shared.ErrInvalidInput] : blank input or nil session, no request sent
//   - [shared.ErrUnexpectedStatus] : non-200 status, as a [*shared.StatusError] carrying the body
//   - [shared.ErrDecode] : malformed or incomplete JSON
//   - [shared.ErrTransport] : passed through from the transport
//
// # Interfaces
//
// The CLI and TUI depend on [Library]. [PlayService] depends on a [Sender], which
// [rest.Client] implements.
package services
