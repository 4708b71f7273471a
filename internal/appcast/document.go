package appcast

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/oshokin/sparkle-appcast/internal/domain/release"
)

const (
	// DefaultMaxItems is the number of releases kept in the feed.
	DefaultMaxItems = 10

	channelTag = "channel"
)

// ErrInvalidMaxItems is returned by Update for a retention cap below one.
var ErrInvalidMaxItems = errors.New("max items must be at least 1")

// Channel returns the <channel> element directly under the document root.
func Channel(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, &release.StructureError{Element: "rss"}
	}

	channel := firstChild(root, channelTag)
	if channel == nil {
		return nil, &release.StructureError{Element: channelTag}
	}

	return channel, nil
}

// Items returns the <item> children of channel in document order.
func Items(channel *etree.Element) []*etree.Element {
	var items []*etree.Element

	for _, child := range channel.ChildElements() {
		if child.Space == "" && child.Tag == itemTag {
			items = append(items, child)
		}
	}

	return items
}

// Update places item at the top of the channel and prunes the feed to maxItems entries.
// It returns the number of removed items. No de-duplication is performed:
// announcing the same build twice yields two entries.
func Update(doc *etree.Document, item *etree.Element, maxItems int) (int, error) {
	if maxItems < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMaxItems, maxItems)
	}

	channel, err := Channel(doc)
	if err != nil {
		return 0, err
	}

	Insert(channel, item)

	return Prune(channel, maxItems), nil
}

// Insert adds item right before the first existing <item>, after any channel
// metadata. A channel without items gets item appended after its last element.
func Insert(channel, item *etree.Element) {
	items := Items(channel)
	if len(items) == 0 {
		appendIndented(channel, item)
		return
	}

	index := items[0].Index()
	indent := whitespaceAt(channel, index-1)

	channel.InsertChildAt(index, item)

	if indent != nil {
		channel.InsertChildAt(index+1, etree.NewText(indent.Data))
	}
}

// Prune removes every <item> from position maxItems onward and returns how
// many were removed. The whitespace preceding a removed item goes with it.
// A cap below one removes nothing; Update rejects such caps before pruning.
func Prune(channel *etree.Element, maxItems int) int {
	if maxItems < 1 {
		return 0
	}

	items := Items(channel)
	if len(items) <= maxItems {
		return 0
	}

	stale := items[maxItems:]
	for _, old := range stale {
		index := old.Index()
		channel.RemoveChildAt(index)

		if whitespaceAt(channel, index-1) != nil {
			channel.RemoveChildAt(index - 1)
		}
	}

	return len(stale)
}

// appendIndented adds item as the last element of parent. When parent ends
// with an indented closing tag, item is indented like its last element.
func appendIndented(parent, item *etree.Element) {
	last := len(parent.Child) - 1
	children := parent.ChildElements()

	if whitespaceAt(parent, last) == nil || len(children) == 0 {
		parent.AddChild(item)
		return
	}

	indent := whitespaceAt(parent, children[len(children)-1].Index()-1)
	if indent == nil {
		parent.AddChild(item)
		return
	}

	parent.InsertChildAt(last, etree.NewText(indent.Data))
	parent.InsertChildAt(last+1, item)
}

func firstChild(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Space == "" && child.Tag == tag {
			return child
		}
	}

	return nil
}

// whitespaceAt returns the whitespace-only text token at index, if any.
func whitespaceAt(parent *etree.Element, index int) *etree.CharData {
	if index < 0 || index >= len(parent.Child) {
		return nil
	}

	text, ok := parent.Child[index].(*etree.CharData)
	if !ok || !text.IsWhitespace() {
		return nil
	}

	return text
}
