// Package auth implements administrator login for the management API.
//
// A single administrator account is configured by username and bcrypt
// password hash. A successful login creates a Session in a SessionStore
// (in-memory or Redis) and sets a signed cookie carrying its id. The
// RequireAuth middleware resolves that cookie into a Principal on the
// request context.
package auth
