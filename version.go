package gotcat

// Release metadata reported by `gotcat --version`.
const (
	Name        = "gotcat"
	Description = "Cached gettext .po catalog lookups"
	Version     = "0.1.0"
	Repository  = "https://github.com/ZaguanLabs/gotcat"
	License     = "MIT"
)

// Build metadata, stamped by release builds:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gotcat.GitCommit=$(git rev-parse HEAD) \
//	  -X github.com/ZaguanLabs/gotcat.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/gotcat
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns Version, suffixed with the short commit hash when one
// was stamped in.
func FullVersion() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Version
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Version + "+" + commit
}
