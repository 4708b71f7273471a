package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sparkle-appcast/internal/config"
	"github.com/oshokin/sparkle-appcast/internal/logger"
	"github.com/oshokin/sparkle-appcast/internal/service/updater"
	"github.com/oshokin/sparkle-appcast/internal/version"
)

// errMaxItemsFlag is returned when --max-items is set below one.
var errMaxItemsFlag = errors.New("--max-items must be at least 1")

var (
	// configPath to the settings YAML file.
	configPath string
	// maxItems is the retention cap override.
	maxItems int
	// atomicWrite forces writing through a temporary file.
	atomicWrite bool
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for adding a release to the appcast.
	rootCmd = &cobra.Command{
		Use:   "appcast-updater [appcast-path]",
		Short: "Add a release to a Sparkle appcast and prune old entries.",
		Long: `Inserts a new release item at the top of the appcast channel and keeps only
the most recent releases.

The release is described by environment variables:
  VERSION             (required) version shown to users, e.g. 1.2.3
  BUILD_NUMBER        (required) build compared by the client, e.g. 202601251200
  DOWNLOAD_URL        (required) absolute URL of the release archive
  ED_SIGNATURE        (optional) EdDSA signature of the archive
  FILE_SIZE           (optional) archive size in bytes, defaults to 0
  MIN_SYSTEM_VERSION  (optional) minimum macOS version, defaults to 15.6

The appcast path defaults to public/appcast.xml or the value from the settings file.
Items are assumed to be ordered newest first; pruning removes the last ones.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &updater.Options{
				ConfigPath:  configPath,
				AtomicWrite: atomicWrite,
				LogLevel:    logLevel,
			}

			if len(args) > 0 {
				options.AppcastPath = args[0]
			}

			if cmd.Flags().Changed("max-items") {
				if maxItems < 1 {
					return fmt.Errorf("%w, got %d", errMaxItemsFlag, maxItems)
				}

				options.MaxItems = maxItems
			}

			err := updater.Run(ctx, options)
			if err != nil {
				logger.ErrorKV(ctx, "Appcast update failed", "error", err)
			}

			return err
		},
	}
)

// Execute runs the appcast-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.Flags().IntVarP(&maxItems, "max-items", "n", config.DefaultMaxItems, "number of releases kept in the feed")
	rootCmd.Flags().BoolVar(&atomicWrite, "atomic", false, "write through a temporary file renamed over the appcast")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
}
