// Package cache is the client's local fallback storage: key/value entries
// namespaced by identity id, kept in SQLite.
//
// The cache is never a source of truth. It mirrors what the document store
// holds so a profile can still be shown when the backend is unreachable, and
// it is wiped per identity on logout. DeviceNamespace holds entries that
// belong to the install rather than to an identity (the session secret).
package cache
