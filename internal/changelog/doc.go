// Package changelog assembles a Markdown changelog from a directory of
// fragment files.
//
// This package implements:
//   - Loading a changelog directory into an in-memory Project
//   - Markdown rendering of the full changelog or only unreleased changes
//   - Detection of issue/PR numbers reused across releases
//   - Scaffolding helpers for new entries and for cutting a release
//
// A changelog directory looks like:
//
//	.changelog/
//	  config.yml
//	  prologue.md
//	  unreleased/
//	    features/
//	      12-add-wrapping.md
//	  v0.2.0/
//	    summary.md
//	    bug-fixes/
//	      docs/
//	        31-fix-links.md
//
// Each release directory holds category directories which may in turn hold
// component directories. Releases may instead nest categories inside
// component directories; the loader detects which order a release uses and
// rejects releases that mix both.
package changelog
