// Package pkce generates the random values used by the OAuth authorization
// code flow with PKCE (RFC 7636): the CSRF state parameter, the code verifier,
// and the S256 code challenge derived from it.
//
// State and verifier carry 256 bits of entropy from crypto/rand and are
// base64url-encoded, so they are safe in URLs and cookies as-is.
package pkce
