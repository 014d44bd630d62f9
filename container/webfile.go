// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

import (
	"encoding/binary"
	"fmt"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/reader"
)

// WebFile is a parsed WebFile container: a shorter framing than
// AssetBundle, carrying a name-indexed file table whose outer stream may
// be gzip- or Brotli-compressed (spec §4.3).
type WebFile struct {
	Signature string
	Entries   []FileEntry

	data []byte
}

// Files returns the embedded file names in header order.
func (w *WebFile) Files() []string {
	names := make([]string, len(w.Entries))
	for i, e := range w.Entries {
		names[i] = e.Path
	}
	return names
}

// ExtractFile returns the bytes of the named embedded file.
func (w *WebFile) ExtractFile(name string) ([]byte, error) {
	const op = "container.WebFile.ExtractFile"
	for _, e := range w.Entries {
		if e.Path != name {
			continue
		}
		if e.Offset < 0 || e.Size < 0 || e.Offset+e.Size > int64(len(w.data)) {
			return nil, core.NewError(core.KindCorruptStream, op,
				fmt.Errorf("entry %q [%d,%d) exceeds data (%d bytes)", name, e.Offset, e.Offset+e.Size, len(w.data)))
		}
		return w.data[e.Offset : e.Offset+e.Size], nil
	}
	return nil, core.NewError(core.KindIO, op, fmt.Errorf("no such entry: %q", name))
}

// ParseWebFile decompresses raw's outer framing (if any) and parses the
// WebFile header and file table.
func ParseWebFile(raw []byte) (*WebFile, error) {
	const op = "container.ParseWebFile"

	data, err := DecompressIfFramed(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := reader.New(data, binary.LittleEndian)
	sig, err := r.ReadCString()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if !isWebFileSignature(sig) {
		return nil, core.NewError(core.KindInvalidSignature, op,
			fmt.Errorf("expected one of %v, got %q", webFileSignatures, sig))
	}

	headLength, err := r.ReadI32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	w := &WebFile{Signature: sig, data: data}
	for r.Position() < int(headLength) {
		off, err := r.ReadI32()
		if err != nil {
			return nil, core.NewError(core.KindCorruptStream, op, err)
		}
		length, err := r.ReadI32()
		if err != nil {
			return nil, core.NewError(core.KindCorruptStream, op, err)
		}
		pathLen, err := r.ReadI32()
		if err != nil {
			return nil, core.NewError(core.KindCorruptStream, op, err)
		}
		pathBytes, err := r.ReadBytes(int(pathLen))
		if err != nil {
			return nil, core.NewError(core.KindCorruptStream, op, err)
		}
		w.Entries = append(w.Entries, FileEntry{
			Offset: int64(off),
			Size:   int64(length),
			Path:   string(pathBytes),
		})
	}
	return w, nil
}

func isWebFileSignature(sig string) bool {
	for _, s := range webFileSignatures {
		if s == sig {
			return true
		}
	}
	return false
}
