// Package postings validates and publishes community job and hackathon
// postings.
package postings
