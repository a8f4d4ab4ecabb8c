// Package version holds build metadata injected with -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/sydlexius/geniuslookup/internal/version.Version=v1.2.0"
var (
	Version = "dev"
	Commit  = "none"
)

// UserAgent returns the User-Agent sent to the Genius API.
func UserAgent() string {
	return "geniuslookup/" + Version
}
