package version

import "fmt"

// Build metadata, overridden via -ldflags "-X .../internal/version.Version=...".
var (
	Version   = "0.1.0"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Current returns the metadata of the running binary.
func Current() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}
}

// String renders the metadata on one line, as printed by `appcast-updater version`.
func (i Info) String() string {
	return fmt.Sprintf("appcast-updater %s (commit %s, built at %s)", i.Version, i.Commit, i.BuildTime)
}

// KV returns the metadata as key-value pairs for structured logging.
func (i Info) KV() []any {
	return []any{
		"tool_version", i.Version,
		"commit", i.Commit,
		"built_at", i.BuildTime,
	}
}
