// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/logx"
)

// Options controls how much a container load parses, mirroring the
// teacher's pe.Options zero-value-is-default shape.
type Options struct {
	// Logger receives non-fatal parse warnings. Defaults to a discarding
	// logger if nil.
	Logger *logx.Helper
}

// OpenFile is the blocking, file-backed load path (spec §5's "blocking
// API"): it memory-maps name, following saferwall-pe/file.go's New, and
// does no sniffing or parsing itself; callers pass Bytes() to Sniff or
// ParseAny. Close unmaps the file; callers that need the bytes to outlive the mapping
// should copy what they extract.
type OpenFile struct {
	f    *os.File
	data mmap.MMap
}

// Open memory-maps name for reading.
func Open(name string) (*OpenFile, error) {
	const op = "container.Open"
	f, err := os.Open(name)
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, core.NewError(core.KindIO, op, err)
	}
	return &OpenFile{f: f, data: data}, nil
}

// Bytes returns the mapped file contents.
func (o *OpenFile) Bytes() []byte { return o.data }

// Close unmaps and closes the underlying file.
func (o *OpenFile) Close() error {
	if o.data != nil {
		_ = o.data.Unmap()
	}
	return o.f.Close()
}

// ParseAny sniffs data and dispatches to the matching container parser,
// implementing spec §6's fallback order: bundle, then webfile (YAML falls
// through to the yamlfmt package, which callers dispatch to themselves
// based on Sniff's result).
func ParseAny(data []byte, opts *Options) (*Bundle, *WebFile, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	switch Sniff(data) {
	case KindBundle:
		b, err := ParseBundle(data, logger)
		return b, nil, err
	case KindWebFile:
		w, err := ParseWebFile(data)
		return nil, w, err
	default:
		// Fallback attempt order per spec §6: try bundle, then webfile.
		if b, err := ParseBundle(data, logger); err == nil {
			return b, nil, nil
		}
		w, err := ParseWebFile(data)
		if err != nil {
			return nil, nil, core.NewError(core.KindInvalidSignature, "container.ParseAny", err)
		}
		return nil, w, nil
	}
}
