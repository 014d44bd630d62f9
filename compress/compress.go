// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package compress dispatches on Unity's AssetBundle compression flag and
// on the file-framed codecs WebFile can be wrapped in, decompressing into
// a caller-sized buffer. It is a thin adapter over third-party codec
// packages — the codec implementations themselves are an explicit
// out-of-scope collaborator (spec §1) — following the per-codec-file
// layout of arloliu-mebo/compress.
package compress

import (
	"fmt"

	"github.com/saferwall/unityasset/core"
)

// Kind identifies a compression algorithm by the AssetBundle flags-field
// encoding (spec §4.2: low 6 bits of the block-table flags).
type Kind int

// Recognized compression kinds.
const (
	None Kind = iota
	LZMA
	LZ4
	LZ4HC
	LZHAM
	Brotli
)

// String names the Kind for logging/diagnostics.
func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case LZMA:
		return "LZMA"
	case LZ4:
		return "LZ4"
	case LZ4HC:
		return "LZ4HC"
	case LZHAM:
		return "LZHAM"
	case Brotli:
		return "Brotli"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindFromFlag maps the low 6 bits of a block/blocks-info flags field to a
// Kind, per spec §4.2's table.
func KindFromFlag(flag uint32) (Kind, error) {
	switch flag & 0x3F {
	case 0:
		return None, nil
	case 1:
		return LZMA, nil
	case 2, 3:
		return LZ4, nil
	case 4:
		return LZHAM, nil
	default:
		return Brotli, nil
	}
}

// Decompress decompresses compressed using kind into a buffer of exactly
// expectedSize bytes (0 means "unknown, return whatever the codec
// produces"). It fails with KindCorruptStream on codec error or an
// output-length mismatch against a non-zero expectedSize.
func Decompress(kind Kind, compressed []byte, expectedSize int) ([]byte, error) {
	const op = "compress.Decompress"
	var out []byte
	var err error

	switch kind {
	case None:
		out = append([]byte(nil), compressed...)
	case LZMA:
		out, err = decompressLZMA(compressed, expectedSize)
	case LZ4, LZ4HC:
		out, err = decompressLZ4(compressed, expectedSize)
	case Brotli:
		out, err = decompressBrotliBlock(compressed, expectedSize)
	case LZHAM:
		return nil, core.NewError(core.KindUnsupported, op, fmt.Errorf("LZHAM codec not linked in"))
	default:
		return nil, core.NewError(core.KindUnsupported, op, fmt.Errorf("unknown compression kind %v", kind))
	}
	if err != nil {
		return nil, core.NewError(core.KindCorruptStream, op, err)
	}
	if expectedSize > 0 && len(out) != expectedSize {
		return nil, core.NewError(core.KindCorruptStream, op,
			fmt.Errorf("decompressed to %d bytes, expected %d", len(out), expectedSize))
	}
	return out, nil
}
