package version

// Set via -ldflags at build time.
var (
	Version  = "0.0.0"
	Revision = "unknown"
)
