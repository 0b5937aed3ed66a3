// Package gigapi is a client for the Gig API: resume email extraction and
// parsing, job search, personalised recommendations, hackathon listings and
// a liveness probe.
//
// Idempotent GETs are retried on transport failures and 5xx responses.
// When a TokenSource is configured, requests carry the caller's BaaS JWT as
// a bearer token; a token that cannot be obtained is simply omitted.
package gigapi
