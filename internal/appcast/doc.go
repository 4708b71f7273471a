// Package appcast manipulates Sparkle appcast documents.
//
// It builds release items from a release.Config, inserts them at the top of
// the channel, prunes the oldest entries beyond a retention cap and
// normalizes the serialized output. Retention is purely positional: items
// are assumed to be ordered newest first, so a manually reordered feed will
// lose the wrong entries.
package appcast
