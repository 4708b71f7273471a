// Package updater adds a release to a Sparkle appcast.
//
// Run reads the release descriptor from the environment, loads the appcast,
// inserts a new item at the top of the channel, prunes the oldest entries
// and rewrites the file. Every run performs exactly one load, mutate and
// write cycle. Concurrent runs against the same file are not guarded
// against; the last writer wins.
package updater
