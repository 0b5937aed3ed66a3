// Package listings loads, filters and remembers job and hackathon listings.
//
// Loads never fail: a source that cannot be reached contributes nothing and
// the Page carries a Notice saying so. Only deleting a posting, which changes
// state, returns an error.
package listings
