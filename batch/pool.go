// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package batch implements spec §5's asynchronous batch layer: a
// bounded-concurrency work pool running the blocking parse APIs
// (container, serialized, yamlfmt) over a directory of files, reporting
// progress over a channel and respecting per-file cancellation. It does
// not reimplement parsing; it schedules calls into the other packages,
// the same separation the teacher draws between pe.Parse (one file) and
// cmd/dump.go's directory walk (many files, bounded workers).
package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/saferwall/unityasset/container"
	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/loadutil"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/yamlfmt"
)

// Stage tags which phase of a single file's processing a Progress tuple
// describes (spec §5's "(bytes_loaded, objects_processed, stage)").
type Stage int

// Recognized stages, in the order a single file passes through them.
const (
	StageLoading Stage = iota
	StageParsing
	StageDecoding
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLoading:
		return "Loading"
	case StageParsing:
		return "Parsing"
	case StageDecoding:
		return "Decoding"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Progress is one update emitted while a batch runs.
type Progress struct {
	Path             string
	BytesLoaded      int64
	ObjectsProcessed int
	Stage            Stage
}

// Result is one file's outcome. Err is non-nil when that single file
// failed to parse; per spec §7's propagation policy, a per-file failure
// never aborts the rest of the batch.
type Result struct {
	Path string
	Doc  *core.Document
	Err  error
}

// Options configures a batch run, following the teacher's Options
// zero-value-is-default shape.
type Options struct {
	// Concurrency bounds how many files are parsed at once. Zero or
	// negative defaults to runtime.NumCPU().
	Concurrency int

	// Logger receives non-fatal parse warnings, forwarded to the
	// underlying per-file parsers. Defaults to a discarding logger.
	Logger *logx.Helper

	// YAML controls sentinel-boolean handling for text-format files
	// (spec §4.9); ignored for binary files.
	YAML yamlfmt.Options
}

func (o Options) workers() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.NumCPU()
}

func (o Options) logger() *logx.Helper {
	if o.Logger == nil {
		return logx.Nop()
	}
	return o.Logger
}

// ParseDir walks dir for recognized Unity asset files (spec §6's
// extension list, content-sniffed) and parses each with bounded
// concurrency N = Options.Concurrency. It returns a results channel
// (one Result per file, order not guaranteed — callers that need source
// order must sort, per spec §5's ordering guarantee) and a progress
// channel. Both channels are closed once every file has been dispatched
// and every worker has returned; ctx cancellation is observed at each
// per-file boundary, not mid-decode.
func ParseDir(ctx context.Context, dir string, opts Options) (<-chan Result, <-chan Progress, error) {
	paths, err := discover(dir)
	if err != nil {
		return nil, nil, core.NewError(core.KindIO, "batch.ParseDir", err)
	}

	results := make(chan Result, len(paths))
	progress := make(chan Progress, len(paths)*4)

	sem := semaphore.NewWeighted(int64(opts.workers()))
	g, gctx := errgroup.WithContext(ctx)

	for _, p := range paths {
		p := p
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				// Context cancelled before this file's turn; report it
				// as that file's own result rather than dropping it
				// silently.
				results <- Result{Path: p, Err: err}
				return nil
			}
			defer sem.Release(1)

			select {
			case <-gctx.Done():
				results <- Result{Path: p, Err: gctx.Err()}
				return nil
			default:
			}

			doc, err := parseOne(p, opts, func(pr Progress) {
				select {
				case progress <- pr:
				default:
					// Bounded channel: drop rather than block a worker
					// on a slow progress consumer (spec §5's
					// back-pressure is the bounded result channel, not
					// the progress stream).
				}
			})
			results <- Result{Path: p, Doc: doc, Err: err}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
		close(progress)
	}()

	return results, progress, nil
}

// discover walks dir and returns every file whose extension is one spec
// §6 recognizes (content is not inspected here), in deterministic (sorted) order so a caller
// that wants source order can zip it back against an order-preserving
// collection of Results.
func discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if container.LooksLikeYAMLExtension(ext) || container.LooksLikeBinaryExtension(ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// parseOne loads and parses a single file, dispatching on sniffed
// content the same way container.ParseAny and the yamlfmt scanner do,
// and reports progress through report.
func parseOne(path string, opts Options, report func(Progress)) (*core.Document, error) {
	const op = "batch.parseOne"

	report(Progress{Path: path, Stage: StageLoading})
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	report(Progress{Path: path, BytesLoaded: int64(len(data)), Stage: StageParsing})

	switch container.Sniff(data) {
	case container.KindYAML:
		doc, err := yamlfmt.Scan(bytes.NewReader(data), path, opts.YAML)
		if err != nil {
			return nil, err
		}
		report(Progress{Path: path, BytesLoaded: int64(len(data)), ObjectsProcessed: doc.Len(), Stage: StageDone})
		return doc, nil

	default:
		bundle, web, err := container.ParseAny(data, &container.Options{Logger: opts.logger()})
		if err != nil {
			return nil, err
		}
		report(Progress{Path: path, BytesLoaded: int64(len(data)), Stage: StageDecoding})

		files := embeddedFiles(bundle, web)
		doc, err := loadutil.DocumentFromEntries(path, files, opts.logger())
		if err != nil {
			return nil, err
		}
		report(Progress{Path: path, BytesLoaded: int64(len(data)), ObjectsProcessed: doc.Len(), Stage: StageDone})
		return doc, nil
	}
}

// embeddedFiles materializes every embedded entry of whichever container
// form ParseAny returned (exactly one of bundle/web is non-nil) into a
// name -> bytes map for loadutil to decode.
func embeddedFiles(bundle *container.Bundle, web *container.WebFile) map[string][]byte {
	out := make(map[string][]byte)
	if bundle != nil {
		for _, name := range bundle.Files() {
			if data, err := bundle.ExtractFile(name); err == nil {
				out[name] = data
			}
		}
	}
	if web != nil {
		for _, name := range web.Files() {
			if data, err := web.ExtractFile(name); err == nil {
				out[name] = data
			}
		}
	}
	return out
}
