// Package appwrite is the client's facade over the Appwrite
// backend-as-a-service REST API.
//
// # Overview
//
// One *Client is configured with the service endpoint and project id and
// hands out two capability groups:
//
//  1. Account: identity, session, verification, recovery and JWT calls
//     against /account.
//  2. Databases: generic document CRUD against named collections, with
//     query helpers (Equal, OrderDesc, Limit, Offset).
//
// There is no business logic here: every method is a pass-through that logs
// failures and returns them.
//
// # Sessions
//
// Creating an email/password session stores the session secret on the
// Client (captured from the a_session_<project> cookie or the response
// body) and sends it on later requests as X-Appwrite-Session. DeleteSession
// forgets it even when the remote call fails.
//
// # Error Handling
//
// Remote failures are returned as *Error carrying the service's code, type
// and message. Callers match categories with errors.Is: ErrUnauthorized
// (401), ErrNotFound (404), ErrConflict (409). Transport failures wrap
// ErrUnavailable; context cancellation is returned as the context error.
package appwrite
