// Package git guards release tasks against running from the wrong branch or
// from a working copy with uncommitted changes.
//
// Repositories are inspected with go-git; no git binary is required.
package git
