// Package sec provides authentication and security primitives for the JSON API
// and web pages.
//
// # Authentication
//
// Users log in with a username and password, verified against bcrypt hashes
// stored in the database. A successful login yields a stateless, HMAC-signed
// JWT carrying the caller's [Identity]. There is no server-side session and
// no revocation: a token is valid until it expires.
//
// IMPORTANT: tokens are bearer credentials. TLS must be used in production to
// protect them in transit.
//
// # Components
//
//   - [Hasher], [ComparePassword]: bcrypt password hashing utilities
//   - [TokenCodec], [JWTCodec]: access token encoding and validation
//   - [Authenticator]: verifies credentials and issues tokens
//   - [Guard]: resolves a token into an [Identity]
//   - [NewBearerMiddleware]: API guard, Authorization header via connectrpc.com/authn
//   - [Guard.CookieMiddleware]: page guard, cookie with redirect to the login page
//   - [GetIdentity], [SetIdentity]: Context accessors for the caller's identity
package sec
