// Package feed implements persistence for the appcast document.
//
// The FileRepository parses the appcast XML from disk and writes it back in
// two passes: a structural write of the document, then a whitespace
// normalization of the written file. The rewrite is not atomic unless
// WithAtomicWrite is used.
package feed
