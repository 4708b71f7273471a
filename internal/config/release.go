package config

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"github.com/oshokin/sparkle-appcast/internal/domain/release"
)

// Environment variables describing the release.
const (
	EnvVersion          = "VERSION"
	EnvBuildNumber      = "BUILD_NUMBER"
	EnvDownloadURL      = "DOWNLOAD_URL"
	EnvEdSignature      = "ED_SIGNATURE"
	EnvFileSize         = "FILE_SIZE"
	EnvMinSystemVersion = "MIN_SYSTEM_VERSION"
)

// releaseEnv mirrors the raw environment. Defaults are applied by LoadRelease
// so that "not provided" stays visible in release.Config. Empty and unset
// values look the same here, so optional keys are also checked on the lookuper.
type releaseEnv struct {
	Version          string `env:"VERSION"`
	BuildNumber      string `env:"BUILD_NUMBER"`
	DownloadURL      string `env:"DOWNLOAD_URL"`
	EdSignature      string `env:"ED_SIGNATURE"`
	FileSize         string `env:"FILE_SIZE"`
	MinSystemVersion string `env:"MIN_SYSTEM_VERSION"`
}

// LoadRelease reads the release descriptor from lookuper, or from the process
// environment when lookuper is nil. Failures are *release.ConfigurationError.
func LoadRelease(ctx context.Context, lookuper envconfig.Lookuper) (*release.Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var env releaseEnv
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	required := []struct {
		key   string
		value string
	}{
		{key: EnvVersion, value: env.Version},
		{key: EnvBuildNumber, value: env.BuildNumber},
		{key: EnvDownloadURL, value: env.DownloadURL},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, release.NewMissingError(field.key)
		}
	}

	downloadURL, err := url.Parse(env.DownloadURL)
	if err != nil {
		return nil, release.NewInvalidError(EnvDownloadURL, env.DownloadURL, "must be a valid URL", err)
	}

	if !downloadURL.IsAbs() {
		return nil, release.NewInvalidError(EnvDownloadURL, env.DownloadURL, "must be an absolute URL", nil)
	}

	cfg := &release.Config{
		Version:     env.Version,
		BuildNumber: env.BuildNumber,
		DownloadURL: env.DownloadURL,
	}

	if env.EdSignature != "" {
		cfg.EdSignature = release.Some(env.EdSignature)
	}

	// Presence is checked on the lookuper: a variable set to "" is provided, not defaulted.
	if _, ok := lookuper.Lookup(EnvMinSystemVersion); ok {
		cfg.MinSystemVersion = release.Some(env.MinSystemVersion)
	}

	if _, ok := lookuper.Lookup(EnvFileSize); ok {
		size, err := strconv.ParseUint(strings.TrimSpace(env.FileSize), 10, 64)
		if err != nil {
			return nil, release.NewInvalidError(EnvFileSize, env.FileSize, "must be a valid non-negative integer", err)
		}

		cfg.FileSize = release.Some(size)
	}

	return cfg, nil
}
