package release

import "strconv"

const (
	// DefaultFileSize is rendered as the enclosure length when no size was provided.
	DefaultFileSize uint64 = 0

	// DefaultMinSystemVersion is the minimum macOS version used when none was provided.
	DefaultMinSystemVersion = "15.6"
)

// Config describes a single release to be announced in the appcast.
// It is built once per invocation and treated as read-only afterwards.
type Config struct {
	// Version is the human-facing version string (sparkle:shortVersionString).
	Version string
	// BuildNumber is the monotonic build identifier (sparkle:version).
	// The update client compares it against the installed build.
	BuildNumber string
	// DownloadURL is the absolute URL of the release archive.
	DownloadURL string
	// EdSignature is the EdDSA signature of the archive, if any.
	EdSignature Optional[string]
	// FileSize is the archive size in bytes, if known.
	FileSize Optional[uint64]
	// MinSystemVersion is the minimum supported macOS version, if overridden.
	MinSystemVersion Optional[string]
}

// FileSizeString renders the enclosure length, falling back to DefaultFileSize.
func (c *Config) FileSizeString() string {
	return strconv.FormatUint(c.FileSize.OrElse(DefaultFileSize), 10)
}

// MinSystemVersionOrDefault returns the minimum system version to announce.
func (c *Config) MinSystemVersionOrDefault() string {
	return c.MinSystemVersion.OrElse(DefaultMinSystemVersion)
}

// Signature returns the EdDSA signature and whether one was supplied.
// An empty signature is never reported as supplied.
func (c *Config) Signature() (string, bool) {
	signature, ok := c.EdSignature.Get()
	if !ok || signature == "" {
		return "", false
	}

	return signature, true
}
