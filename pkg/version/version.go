package version

// Version and Commit are set at build time via ldflags, e.g.
// go build -ldflags "-X github.com/shishobooks/circulation/pkg/version.Version=1.0.0".
var (
	Version = "dev"
	Commit  = "unknown"
)
