// Package pkg provides the core libraries for levelforge.
//
// # Overview
//
// Levelforge keeps a directory of tile-grid game levels and the C++ headers
// compiled from them in sync. Each level is a text file (one grid row per
// line); building it produces a header holding the text as a raw string
// literal, and the registry header AllLevels.h lists every built level in
// the order recorded in order.cfg.
//
// # Architecture
//
// The data flow for a single build:
//
//	<name>.txt
//	     ↓
//	[level] package (read text, normalize names, resolve paths)
//	     ↓
//	[codegen] package (level header bytes)
//	     ↓
//	[registry] package (reconcile order.cfg with the directory)
//	     ↓
//	[codegen] package (AllLevels.h bytes, built levels only)
//
// [pipeline] runs these stages as commands (create, build, delete, reorder,
// list) and is shared by the CLI, the [server] JSON API and the [watch]
// file watcher.
//
// # Quick Start
//
//	cfg, _ := config.Load("")
//	runner := pipeline.NewRunner(cfg, nil, nil, nil)
//	if _, err := runner.Create(ctx, "test room"); err != nil {
//	    return err
//	}
//	res, err := runner.Build(ctx, "test room")
//	// res.HeaderPath() == "src/assets/levels/Test_room.h"
//
// # Main Packages
//
// [grid] - The in-memory tile matrix: creation, bounds-checked editing,
// overlap-preserving resize and serialization. Also the display palette.
//
// [level] - Level records, name normalization, file naming conventions and
// the text-file serializer.
//
// [codegen] - Byte-exact generators for level headers and the registry
// header.
//
// [registry] - The order file: reconciliation with the directory contents
// and one-step reordering.
//
// [pipeline] - Command runner tying the stages together, with build caching
// and observability hooks.
//
// [session] - An open level in an editor, tracking unsaved edits.
//
// [config] - TOML configuration for paths, grid defaults, palette,
// generator identifiers, server, watcher and cache.
//
// [cache] - Header cache (file and no-op backends) keyed by level text.
//
// [observability] - Hook registry for build, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [server] - chi-based JSON API over the runner.
//
// [watch] - fsnotify watcher that rebuilds levels as their files change.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/pipeline/...           # Specific package
//	go test -run Example ./pkg/grid/...  # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/grid
// [level]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/level
// [codegen]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/codegen
// [registry]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/registry
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/errors
// [server]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/server
// [watch]: https://pkg.go.dev/github.com/matzehuels/levelforge/pkg/watch
package pkg
