package config

import (
	"flag"
	"os"
	"time"

	"github.com/gigrithm/gigrithm/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// os.Args is filtered to the flags handled here so the source flags
// (-c, -env) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-p", "-g", "-i", "-l", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AppwriteEndpoint, "e", cfg.AppwriteEndpoint, "Appwrite endpoint")
	fs.StringVar(&cfg.AppwriteProjectID, "p", cfg.AppwriteProjectID, "Appwrite project id")
	fs.StringVar(&cfg.GigAPIBaseURL, "g", cfg.GigAPIBaseURL, "Gig API base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache DSN")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -i is whole seconds; leave env/JSON values such as 500ms alone unless it was given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
