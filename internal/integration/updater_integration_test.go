package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/sparkle-appcast/internal/appcast"
	"github.com/oshokin/sparkle-appcast/internal/config"
	"github.com/oshokin/sparkle-appcast/internal/service/updater"
)

const seedAppcast = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Example App</title>
    <link>https://example.com/appcast.xml</link>
    <description>Most recent changes with links to updates.</description>
    <language>en</language>
  </channel>
</rss>
`

// TestUpdater_DefaultLocation runs the updater from a repository root with inputs taken
// from the process environment, the way a CI job invokes it.
func TestUpdater_DefaultLocation(t *testing.T) {
	// Setup test directory and change working directory.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.MkdirAll(filepath.Dir(config.DefaultAppcastPath), 0o755))
	require.NoError(t, os.WriteFile(config.DefaultAppcastPath, []byte(seedAppcast), 0o644))

	t.Setenv(config.EnvDownloadURL, "https://example.com/releases/App.zip")

	// Optional inputs are absent, as in a job that does not sign or measure the archive.
	for _, key := range []string{config.EnvEdSignature, config.EnvFileSize, config.EnvMinSystemVersion} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	// Publish twelve builds; only the ten most recent must survive.
	for build := 1; build <= 12; build++ {
		t.Setenv(config.EnvVersion, "1.0."+strconv.Itoa(build))
		t.Setenv(config.EnvBuildNumber, fmt.Sprintf("2026012512%02d", build))

		require.NoError(t, updater.Run(context.Background(), &updater.Options{}))
	}

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(config.DefaultAppcastPath))

	channel, err := appcast.Channel(doc)
	require.NoError(t, err)

	// Channel metadata stays ahead of every item.
	require.Equal(t, "title", channel.ChildElements()[0].Tag)
	require.Equal(t, "language", channel.ChildElements()[3].Tag)

	items := appcast.Items(channel)
	require.Len(t, items, appcast.DefaultMaxItems)
	require.Equal(t, "1.0.12", items[0].SelectElement("sparkle:shortVersionString").Text())
	require.Equal(t, "1.0.3", items[len(items)-1].SelectElement("sparkle:shortVersionString").Text())

	for _, item := range items {
		enclosure := item.SelectElement("enclosure")
		require.Equal(t, "0", enclosure.SelectAttrValue("length", ""))
		require.Nil(t, enclosure.SelectAttr("sparkle:edSignature"))
		require.Equal(t, "15.6", item.SelectElement("sparkle:minimumSystemVersion").Text())
	}

	contents, err := os.ReadFile(config.DefaultAppcastPath)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(contents), "</rss>\n"))
	require.Equal(t, 1, strings.Count(string(contents), "xmlns:sparkle="))
}

