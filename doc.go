// Package auth provides stateless cookie session authentication: a login
// flow that delegates password checks to an external credential authority
// and issues signed HS256 tokens, plus the per request extraction of the
// caller identity from the access_token cookie.
//
// Token lifecycle:
//   - SigningKeys is built once at startup from JWT_SECRET and passed to a
//     ClaimsCodec. There is no package level key.
//   - Auther.Login mints Claims (iss = username, iat, exp) and signs them.
//   - IdentityExtractor parses the Cookie header, decodes the token and
//     returns the Identity. Expiry is enforced inside ClaimsCodec.Decode on
//     every call, nothing is stored server side.
//
// Errors:
//   - Every failure crossing the package boundary is an *AuthError whose
//     ErrorKind maps to a fixed status and message. Verifier diagnostics and
//     decode reasons stay on the error for logging and never reach a
//     response body.
//
// Activity sinks:
//   - ActivitySink receives login and logout events. Sinks run best-effort
//     (errors are logged) so you can forward to a log or queue without
//     blocking authentication.
package auth
