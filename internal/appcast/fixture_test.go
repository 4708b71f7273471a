package appcast

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/sparkle-appcast/internal/domain/release"
)

// fixedNow is the clock used by every item built in tests.
var fixedNow = time.Date(2026, time.January, 25, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

// feedXML renders an appcast with count items, newest first, titled "Version 0.<n>".
func feedXML(count int) string {
	var builder strings.Builder

	builder.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0" xmlns:sparkle="` + SparkleURI + `" xmlns:dc="` + DublinCoreURI + `">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString("    <title>Example App</title>\n")
	builder.WriteString("    <description>Most recent changes</description>\n")

	for n := count; n >= 1; n-- {
		fmt.Fprintf(&builder, "    <item><title>Version 0.%d</title><sparkle:version>%d</sparkle:version></item>\n", n, n)
	}

	builder.WriteString("  </channel>\n")
	builder.WriteString("</rss>\n")

	return builder.String()
}

func parseFeed(t *testing.T, xml string) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))

	return doc
}

func titles(items []*etree.Element) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, item.SelectElement("title").Text())
	}

	return result
}

func testRelease() *release.Config {
	return &release.Config{
		Version:     "1.0.0",
		BuildNumber: "202601251200",
		DownloadURL: "https://example.com/app.zip",
	}
}
