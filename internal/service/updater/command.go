package updater

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/oshokin/sparkle-appcast/internal/appcast"
	"github.com/oshokin/sparkle-appcast/internal/config"
	"github.com/oshokin/sparkle-appcast/internal/domain/release"
	"github.com/oshokin/sparkle-appcast/internal/logger"
	"github.com/oshokin/sparkle-appcast/internal/repository/feed"
	"github.com/oshokin/sparkle-appcast/internal/version"
)

// Options contains inputs for the updater entry point.
// Zero values defer to the settings file.
type Options struct {
	// ConfigPath is an optional path to the YAML settings file.
	ConfigPath string
	// AppcastPath overrides the appcast location from settings.
	AppcastPath string
	// MaxItems overrides the retention cap from settings.
	MaxItems int
	// AtomicWrite forces writing through a temporary file.
	AtomicWrite bool
	// LogLevel overrides the log level from settings.
	LogLevel string
	// Lookuper supplies the release variables; nil means the process environment.
	Lookuper envconfig.Lookuper
	// Clock stamps the new item; nil means time.Now.
	Clock appcast.Clock
}

// updater holds everything needed for a single run.
// It is unexported: callers should use Run, which encapsulates setup and validation.
type updater struct {
	// cfg holds the resolved file-level settings.
	cfg *config.Config
	// release describes the build being announced.
	release *release.Config
	// repo loads and saves the appcast document.
	repo feed.Repository
	// clock stamps the new item.
	clock appcast.Clock
}

// Run executes the appcast update workflow.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "appcast-updater")

	cfg, err := resolveSettings(opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	logger.DebugKV(ctx, "Starting", version.Current().KV()...)

	u, err := newUpdater(ctx, cfg, opts)
	if err != nil {
		return fmt.Errorf("initialize updater: %w", err)
	}

	if err = u.Run(ctx); err != nil {
		return fmt.Errorf("update appcast: %w", err)
	}

	logger.InfoKV(ctx, "Appcast updated successfully", "path", cfg.AppcastPath)

	return nil
}

// resolveSettings loads the settings file and applies overrides from opts.
func resolveSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.AppcastPath != "" {
		cfg.AppcastPath = opts.AppcastPath
	}

	if opts.MaxItems != 0 {
		cfg.MaxItems = opts.MaxItems
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	cfg.AtomicWrite = cfg.AtomicWrite || opts.AtomicWrite

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newUpdater reads the release descriptor. It fails before the appcast is touched.
func newUpdater(ctx context.Context, cfg *config.Config, opts *Options) (*updater, error) {
	rel, err := config.LoadRelease(ctx, opts.Lookuper)
	if err != nil {
		return nil, err
	}

	repoOpts := []feed.Option{
		feed.WithNamespaces(appcast.DefaultNamespaces()),
	}
	if cfg.AtomicWrite {
		repoOpts = append(repoOpts, feed.WithAtomicWrite())
	}

	return &updater{
		cfg:     cfg,
		release: rel,
		repo:    feed.NewFileRepository(cfg.AppcastPath, repoOpts...),
		clock:   opts.Clock,
	}, nil
}

// Run loads the appcast, adds the release item and writes the result back.
func (u *updater) Run(ctx context.Context) error {
	ctx = logger.WithKV(ctx,
		"version", u.release.Version,
		"build_number", u.release.BuildNumber,
	)

	doc, err := u.repo.Load(ctx)
	if err != nil {
		return err
	}

	channel, err := appcast.Channel(doc)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Found channel", "items", len(appcast.Items(channel)))

	if err = ctx.Err(); err != nil {
		return err
	}

	namespaces := appcast.DefaultNamespaces().Bind(doc.Root())
	item := appcast.NewItem(u.release, namespaces, u.clock)

	pruned, err := appcast.Update(doc, item, u.cfg.MaxItems)
	if err != nil {
		return err
	}

	if pruned > 0 {
		logger.InfoKV(ctx, "Pruned old releases", "removed", pruned, "max_items", u.cfg.MaxItems)
	}

	if _, signed := u.release.Signature(); !signed {
		logger.WarnKV(ctx, "Release has no EdDSA signature, enclosure published unsigned")
	}

	if err = u.repo.Save(ctx, doc); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Inserted release item",
		"download_url", u.release.DownloadURL,
		"length", u.release.FileSizeString(),
	)

	return nil
}
