// Package cli provides the interactive Gigrithm shell.
//
// The shell signs users in, runs the resume-first registration flow, lists
// jobs and hackathons, and lets verified users publish postings. Commands
// are split into public ones and gated ones; a gated command run without
// the required session prints where the user has to go instead (login or
// verify-email).
//
// A background watcher probes the Gig API and refreshes the email
// verification state until the shell exits. See App.Run and runREPL.
package cli
