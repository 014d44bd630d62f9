// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package extract implements spec §6's persisted-state layout: writing
// selected Document entries out as standalone YAML documents, and
// decoding a Texture2D entry's pixel data to an on-disk image. It is the
// one package in this module that imports an external image-encoding
// library (image/png, image/jpeg, golang.org/x/image/bmp and tiff) —
// spec §1/§9 name that encoder as an out-of-scope collaborator the core
// hands bytes to, not something core itself performs.
package extract

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/yamlfmt"
)

// Options configures an extraction run.
type Options struct {
	// Types restricts extraction to entries whose ClassName is in this
	// list. Empty means "every entry" (spec §6's `extract` with no
	// `--types` flag).
	Types []string

	// YAML controls sentinel-boolean re-encoding on the way out (spec
	// §4.9/§4.10).
	YAML yamlfmt.Options
}

// ToDirectory writes each of doc's matching entries as a standalone YAML
// document into dir, named `{ClassName}_{index:03}_{anchor}.yaml` (spec
// §6). index is 1-based and counts only entries that match opts.Types,
// in document order — the same numbering the seed scenario 6 example
// describes ("writes exactly one file per MonoBehaviour entry").
// It returns the paths written, in the same order.
func ToDirectory(doc *core.Document, dir string, opts Options) ([]string, error) {
	const op = "extract.ToDirectory"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	var entries []*core.Class
	if len(opts.Types) == 0 {
		entries = doc.Entries()
	} else {
		entries = doc.FilterByClasses(opts.Types)
	}

	var paths []string
	for i, class := range entries {
		name := fmt.Sprintf("%s_%03d_%s.yaml", class.ClassName, i+1, class.Anchor)
		path := filepath.Join(dir, name)

		standalone := core.NewDocument(path, doc.Format)
		if err := standalone.AddEntry(class); err != nil {
			return nil, core.NewError(core.KindSchemaMismatch, op, err)
		}

		f, err := os.Create(path)
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		err = yamlfmt.Emit(f, standalone, opts.YAML)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, core.NewError(core.KindIO, op, closeErr)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteImage encodes img to path, choosing the codec from path's
// extension: png (default for an unrecognized/missing extension), jpg/
// jpeg, bmp, tif/tiff (spec §6).
func WriteImage(img image.Image, path string) error {
	const op = "extract.WriteImage"

	f, err := os.Create(path)
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	return nil
}
