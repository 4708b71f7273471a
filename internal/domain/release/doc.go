// Package release contains the domain types describing one published build.
//
// It defines Config (the immutable release descriptor read once per run),
// the Optional helper used for fields that may be absent, and the error
// kinds reported when the descriptor or the appcast document is unusable.
package release
