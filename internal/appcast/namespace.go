package appcast

import (
	"strconv"

	"github.com/beevik/etree"
)

const (
	// SparklePrefix is the preferred prefix for the Sparkle namespace.
	SparklePrefix = "sparkle"
	// SparkleURI identifies Sparkle update metadata.
	SparkleURI = "http://www.andymatuschak.org/xml-namespaces/sparkle"

	// DublinCorePrefix is the preferred prefix for the Dublin Core namespace.
	DublinCorePrefix = "dc"
	// DublinCoreURI identifies Dublin Core metadata. It is declared but not populated.
	DublinCoreURI = "http://purl.org/dc/elements/1.1/"

	xmlnsSpace = "xmlns"
)

// Namespace maps a prefix to a namespace URI.
type Namespace struct {
	Prefix string
	URI    string
}

// Namespaces is the set of namespaces written into an appcast.
type Namespaces []Namespace

// DefaultNamespaces returns the Sparkle and Dublin Core namespaces with their usual prefixes.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		{Prefix: SparklePrefix, URI: SparkleURI},
		{Prefix: DublinCorePrefix, URI: DublinCoreURI},
	}
}

// Bind declares every namespace on root and returns the prefixes actually in use.
// A URI already declared on root keeps its existing prefix; a preferred prefix
// bound to another URI gets a numeric suffix.
func (n Namespaces) Bind(root *etree.Element) Namespaces {
	bound := make(Namespaces, 0, len(n))

	for _, ns := range n {
		if prefix, ok := declaredPrefix(root, ns.URI); ok {
			bound = append(bound, Namespace{Prefix: prefix, URI: ns.URI})
			continue
		}

		prefix := ns.Prefix
		for i := 1; root.SelectAttr(xmlnsSpace+":"+prefix) != nil; i++ {
			prefix = ns.Prefix + strconv.Itoa(i)
		}

		root.CreateAttr(xmlnsSpace+":"+prefix, ns.URI)
		bound = append(bound, Namespace{Prefix: prefix, URI: ns.URI})
	}

	return bound
}

// Qualify returns the prefixed name of local within uri.
// Unknown URIs yield the bare local name.
func (n Namespaces) Qualify(uri, local string) string {
	for _, ns := range n {
		if ns.URI == uri && ns.Prefix != "" {
			return ns.Prefix + ":" + local
		}
	}

	return local
}

func declaredPrefix(root *etree.Element, uri string) (string, bool) {
	for _, attr := range root.Attr {
		if attr.Space == xmlnsSpace && attr.Value == uri {
			return attr.Key, true
		}
	}

	return "", false
}
