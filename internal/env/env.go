package env

const AppName = "fwunpack"

// Set at build time with -ldflags "-X github.com/ostafen/fwunpack/internal/env.Version=..."
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
