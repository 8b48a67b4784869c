// Package pipeline provides the command interface of levelforge.
//
// Every front-end (the CLI, the terminal editor, the HTTP API, the file
// watcher) drives levels through a [Runner]. The Runner owns no grid state;
// it translates commands into the stages of the asset pipeline:
//
//  1. Save: write a level's text file
//  2. Build: generate the level's header from its text
//  3. Reconcile: merge order.cfg with the level files on disk
//  4. Emit: regenerate the aggregate header from the canonical order
//
// Each command runs its stages in sequence and stops at the first error.
// Writes that already happened stay on disk; there is no rollback.
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, cache.NewNullCache(), nil, logger)
//	rec, err := runner.Create(ctx, "test room")
//	res, err := runner.Build(ctx, rec.Name)
//	entries, err := runner.List(ctx)
package pipeline

import (
	"github.com/matzehuels/levelforge/pkg/level"
)

// Entry is one level in canonical order.
type Entry struct {
	level.Record
	Built bool // header file exists
}

// BuildResult describes a single-level build.
type BuildResult struct {
	level.Record
	Cached   bool     // header already up to date, write skipped
	Order    []string // canonical order after reconciliation
	Included int      // levels listed in the aggregate header
}

// Stats summarizes a multi-level build.
type Stats struct {
	Levels   int
	Written  int
	Cached   int
	Included int
}
