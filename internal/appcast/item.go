package appcast

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/oshokin/sparkle-appcast/internal/domain/release"
)

const (
	// PubDateLayout is the RFC 822 style layout used for <pubDate>.
	PubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

	// EnclosureType is the MIME type announced for every download.
	EnclosureType = "application/octet-stream"

	titleFormat = "Version %s"

	itemTag      = "item"
	titleTag     = "title"
	pubDateTag   = "pubDate"
	enclosureTag = "enclosure"
)

// Clock returns the current time. It is injected to keep items reproducible in tests.
type Clock func() time.Time

// NewItem builds an <item> element announcing cfg.
// The element is detached; use Update to place it into a document.
func NewItem(cfg *release.Config, ns Namespaces, now Clock) *etree.Element {
	if now == nil {
		now = time.Now
	}

	item := etree.NewElement(itemTag)
	item.CreateElement(titleTag).SetText(fmt.Sprintf(titleFormat, cfg.Version))
	item.CreateElement(pubDateTag).SetText(now().UTC().Format(PubDateLayout))

	// The build number is what the client compares against the installed bundle.
	item.CreateElement(ns.Qualify(SparkleURI, "version")).SetText(cfg.BuildNumber)
	item.CreateElement(ns.Qualify(SparkleURI, "shortVersionString")).SetText(cfg.Version)
	item.CreateElement(ns.Qualify(SparkleURI, "minimumSystemVersion")).SetText(cfg.MinSystemVersionOrDefault())

	enclosure := item.CreateElement(enclosureTag)
	enclosure.CreateAttr("url", cfg.DownloadURL)
	enclosure.CreateAttr("length", cfg.FileSizeString())
	enclosure.CreateAttr("type", EnclosureType)

	if signature, ok := cfg.Signature(); ok {
		enclosure.CreateAttr(ns.Qualify(SparkleURI, "edSignature"), signature)
	}

	return item
}
