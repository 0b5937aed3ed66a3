// Package session is the client's single source of truth for who is signed
// in, whether their address is verified and what their profile holds.
//
// A Store is built from injected dependencies (the identity API, the profile
// document repository, the local fallback cache and an optional resume
// parser). It leaves StateLoading exactly once, in Init, and from then on
// moves between StateAnonymous, StateUnverified and StateVerified as the
// mutating operations succeed. Listeners registered with Subscribe receive a
// Snapshot after every change.
//
// Error policy: operations that change identity state (Register, Login,
// password changes, profile writes) return errors to the caller. Reads that
// merely refresh state (Init, CheckVerificationStatus) swallow them. Logout
// always ends signed out. Local cache failures are logged and ignored.
package session
