// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

import (
	"encoding/binary"
	"fmt"

	"github.com/saferwall/unityasset/compress"
	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/reader"
)

// blockInfoAtEndFlag marks that the blocks-info table lives at the tail of
// the file rather than immediately following the header (spec §4.3).
const blockInfoAtEndFlag = 0x80

// BlockInfo describes one consecutive storage block inside an
// AssetBundle's data section.
type BlockInfo struct {
	UncompressedSize uint32
	CompressedSize   uint32
	Flags            uint16
}

// FileEntry names one embedded file inside a container's materialized
// data buffer.
type FileEntry struct {
	Offset int64
	Size   int64
	Flags  uint32
	Path   string
}

// Bundle is a parsed AssetBundle (any of the UnityFS/UnityWeb/UnityRaw/
// UnityArchive signatures).
type Bundle struct {
	Signature            string
	StreamVersion         uint32
	UnityVersion          string
	UnityRevision         string
	Size                  int64
	CompressedInfoSize    uint32
	UncompressedInfoSize  uint32
	Flags                 uint32
	UncompressedDataHash  [16]byte
	Blocks                []BlockInfo
	Entries               []FileEntry

	data []byte // materialized (decompressed, concatenated) data section
}

// Files returns the embedded file names in directory order.
func (b *Bundle) Files() []string {
	names := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		names[i] = e.Path
	}
	return names
}

// ExtractFile returns the bytes of the named embedded file.
func (b *Bundle) ExtractFile(name string) ([]byte, error) {
	const op = "container.ExtractFile"
	for _, e := range b.Entries {
		if e.Path != name {
			continue
		}
		if e.Offset < 0 || e.Size < 0 || e.Offset+e.Size > int64(len(b.data)) {
			return nil, core.NewError(core.KindCorruptStream, op,
				fmt.Errorf("entry %q [%d,%d) exceeds materialized data (%d bytes)", name, e.Offset, e.Offset+e.Size, len(b.data)))
		}
		return b.data[e.Offset : e.Offset+e.Size], nil
	}
	return nil, core.NewError(core.KindIO, op, fmt.Errorf("no such entry: %q", name))
}

// ExtractFileAt returns the bytes of the i'th embedded file.
func (b *Bundle) ExtractFileAt(i int) ([]byte, error) {
	if i < 0 || i >= len(b.Entries) {
		return nil, core.NewError(core.KindIO, "container.ExtractFileAt", fmt.Errorf("index %d out of range", i))
	}
	return b.ExtractFile(b.Entries[i].Path)
}

// ParseBundle parses an AssetBundle from data. logger may be nil.
func ParseBundle(data []byte, logger *logx.Helper) (*Bundle, error) {
	const op = "container.ParseBundle"
	if logger == nil {
		logger = logx.Nop()
	}

	r := reader.New(data, binary.BigEndian)
	sig, err := r.ReadCString()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if !isBundleSignature(sig) {
		return nil, core.NewError(core.KindInvalidSignature, op,
			fmt.Errorf("expected one of %v, got %q", bundleSignatures, sig))
	}

	b := &Bundle{Signature: sig}

	streamVersion, err := r.ReadU32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	b.StreamVersion = streamVersion

	if b.UnityVersion, err = r.ReadCString(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if b.UnityRevision, err = r.ReadCString(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	if sig == "UnityFS" {
		size, err := r.ReadU64()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		b.Size = int64(size)
	} else {
		size, err := r.ReadU32()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		b.Size = int64(size)
	}

	if b.CompressedInfoSize, err = r.ReadU32(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if b.UncompressedInfoSize, err = r.ReadU32(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if b.Flags, err = r.ReadU32(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	headerEnd := r.Position()
	if b.Flags&blockInfoAtEndFlag != 0 {
		infoStart := len(data) - int(b.CompressedInfoSize)
		if infoStart < 0 || infoStart > len(data) {
			return nil, core.NewError(core.KindCorruptStream, op, fmt.Errorf("blocks-info-at-end offset out of range"))
		}
		r.SetPosition(infoStart)
	}

	compressedInfo, err := r.ReadBytes(int(b.CompressedInfoSize))
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	codec, err := compress.KindFromFlag(b.Flags)
	if err != nil {
		return nil, core.NewError(core.KindUnsupported, op, err)
	}
	infoBuf, err := compress.Decompress(codec, compressedInfo, int(b.UncompressedInfoSize))
	if err != nil {
		return nil, fmt.Errorf("%s: decompressing blocks info: %w", op, err)
	}

	if err := b.parseBlocksInfo(infoBuf); err != nil {
		return nil, err
	}
	verifyBlocksInfoHash(b.UncompressedDataHash, infoBuf, logger)

	if b.Flags&blockInfoAtEndFlag == 0 {
		r.SetPosition(headerEnd + int(b.CompressedInfoSize))
	} else {
		r.SetPosition(headerEnd)
	}

	dataStart := r.Position()
	if err := b.materialize(data[dataStart:], logger); err != nil {
		return nil, err
	}
	return b, nil
}

func isBundleSignature(sig string) bool {
	for _, s := range bundleSignatures {
		if s == sig {
			return true
		}
	}
	return false
}

func (b *Bundle) parseBlocksInfo(buf []byte) error {
	const op = "container.parseBlocksInfo"
	r := reader.New(buf, binary.BigEndian)

	hash, err := r.ReadBytes(16)
	if err != nil {
		return core.NewError(core.KindCorruptStream, op, err)
	}
	copy(b.UncompressedDataHash[:], hash)

	blockCount, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindCorruptStream, op, err)
	}
	b.Blocks = make([]BlockInfo, blockCount)
	for i := range b.Blocks {
		u, err := r.ReadU32()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		c, err := r.ReadU32()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		fl, err := r.ReadU16()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		b.Blocks[i] = BlockInfo{UncompressedSize: u, CompressedSize: c, Flags: fl}
	}

	fileCount, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindCorruptStream, op, err)
	}
	b.Entries = make([]FileEntry, fileCount)
	for i := range b.Entries {
		off, err := r.ReadI64()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		size, err := r.ReadI64()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		fl, err := r.ReadU32()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		path, err := r.ReadCString()
		if err != nil {
			return core.NewError(core.KindCorruptStream, op, err)
		}
		b.Entries[i] = FileEntry{Offset: off, Size: size, Flags: fl, Path: path}
	}
	return nil
}

// materialize decompresses each block (codec = block.Flags & 0x3F) and
// concatenates them into b.data, the buffer file-entry offsets address.
func (b *Bundle) materialize(blockData []byte, logger *logx.Helper) error {
	const op = "container.materialize"
	out := make([]byte, 0, totalUncompressedSize(b.Blocks))
	pos := 0
	for i, blk := range b.Blocks {
		if pos+int(blk.CompressedSize) > len(blockData) {
			return core.NewError(core.KindCorruptStream, op,
				fmt.Errorf("block %d: compressed span exceeds data section", i))
		}
		chunk := blockData[pos : pos+int(blk.CompressedSize)]
		pos += int(blk.CompressedSize)

		codec, err := compress.KindFromFlag(uint32(blk.Flags))
		if err != nil {
			return core.NewError(core.KindUnsupported, op, err)
		}
		dec, err := compress.Decompress(codec, chunk, int(blk.UncompressedSize))
		if err != nil {
			logger.Errorf("block %d: decompress failed: %v", i, err)
			return err
		}
		out = append(out, dec...)
	}
	b.data = out
	return nil
}

func totalUncompressedSize(blocks []BlockInfo) int {
	n := 0
	for _, b := range blocks {
		n += int(b.UncompressedSize)
	}
	return n
}
