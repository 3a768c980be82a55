package version

import (
	"runtime"
	"time"
)

// Overridden at build time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/desk/internal/version.Version=v0.3.0 -X ...Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().UTC().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String renders the build information on one line.
func String() string {
	return Version + " (commit=" + Commit + ", built=" + BuildDate + ", go=" + GoVersion + ")"
}
