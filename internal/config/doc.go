// Package config loads everything an appcast update run needs.
//
// Config holds file-level settings (appcast path, retention cap, write mode,
// log level) persisted as YAML. LoadRelease reads the release descriptor
// from environment variables and validates it before any file is touched.
package config
