// Package config loads runtime configuration for the Gigrithm client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file (-env, or ./.env when present) and GIGRITHM_* variables.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-e string   Appwrite endpoint, e.g. https://cloud.appwrite.io/v1
//	-p string   Appwrite project id
//	-g string   Gig API base URL (resume extraction, search, hackathons)
//	-i int      online status check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//	-d string   local cache DSN (SQLite)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds. Only keys that are present override earlier sources:
//
//	{
//	  "appwrite_endpoint": "https://cloud.appwrite.io/v1",
//	  "appwrite_project_id": "gigrithm",
//	  "collections": {"jobs": "jobs", "hackathons": "hackathons"},
//	  "http_timeout": "15s"
//	}
//
// Every project id, collection id and third-party key lives here; nothing
// downstream hard-codes them.
package config
