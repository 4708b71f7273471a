// Package version describes the appcast-updater binary itself.
//
// The metadata is stamped by the release build through ldflags and is
// unrelated to the VERSION and BUILD_NUMBER of the application whose
// appcast is being updated. The updater logs it at startup so a feed
// change can be traced back to the tool build that made it.
package version
