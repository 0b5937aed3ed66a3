// Package models defines the listing records shown and posted by the client:
// jobs, hackathons and bug reports.
//
// The same record arrives in several shapes. The Gig API uses snake_case and
// sometimes alternative names (url for apply_link, name for title); documents
// from the BaaS store use camelCase and may hold tags as a comma-separated
// string. The Decode functions accept all of them.
package models
