// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"

	"github.com/saferwall/unityasset/container"
	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/loadutil"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/yamlfmt"
)

// loadDocument reads path and parses it into a core.Document, dispatching
// on sniffed content per spec §6's priority list. This is the single-file
// counterpart of batch.ParseDir's per-file step, kept separate since the
// CLI's single-file commands don't need a worker pool.
func loadDocument(path string, yamlOpts yamlfmt.Options, logger *logx.Helper) (*core.Document, error) {
	const op = "unityasset.loadDocument"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	switch container.Sniff(data) {
	case container.KindYAML:
		return yamlfmt.Scan(bytes.NewReader(data), path, yamlOpts)
	default:
		bundle, web, err := container.ParseAny(data, &container.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		files := make(map[string][]byte)
		if bundle != nil {
			for _, name := range bundle.Files() {
				if b, err := bundle.ExtractFile(name); err == nil {
					files[name] = b
				}
			}
		}
		if web != nil {
			for _, name := range web.Files() {
				if b, err := web.ExtractFile(name); err == nil {
					files[name] = b
				}
			}
		}
		return loadutil.DocumentFromEntries(path, files, logger)
	}
}

// exitCodeFor maps a returned error to spec §6's exit-code contract.
func exitCodeFor(err error) int {
	var cerr *core.Error
	if !errors.As(err, &cerr) {
		return exitMalformedInput
	}
	switch cerr.Kind {
	case core.KindIO:
		return exitIOError
	case core.KindUnsupported:
		return exitUnsupportedFormat
	case core.KindInvalidSignature, core.KindCorruptStream, core.KindSchemaMismatch, core.KindInvalidGeometry:
		return exitMalformedInput
	default:
		return exitMalformedInput
	}
}
