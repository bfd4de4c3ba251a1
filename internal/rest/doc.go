// Package rest implements the authenticated REST transport shared by every remote call.
//
// A [Request] describes one call (scheme, host, path, query, headers, cookies and form fields).
// [Client] turns it into an HTTP exchange and folds the result into a [Response] envelope holding
// the status code, flattened headers, the cookies the server set and the drained body.
//
// # Cookies
//
// The transport never consults nor mutates client-side cookie storage: the wrapped [http.Client]
// is copied without its Jar. Cookies are sent only when a descriptor names them, and the cookies
// a server sets are surfaced in [Response.Cookies] for the caller to keep.
//
// # Redirects
//
// Redirects are followed for GET and HEAD. A redirected POST returns the 3xx envelope as is, so
// cookies set on the redirect response are not lost.
//
// # Errors
//
//   - [shared.ErrInvalidInput] : malformed descriptor, rejected before any I/O
//   - [shared.ErrTransport] : connection, URI or body read failures
//
// Non-2xx status codes are not errors at this layer.
package rest
