// Package workspace manages the temp directory of a build. The directory is
// persistent: it is created on demand and kept between runs, so the manifest
// of the last run stays available for inspection.
package workspace
