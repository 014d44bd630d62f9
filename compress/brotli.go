// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// unityBrotliMagicOffset is the byte offset of Unity's 6-byte Brotli magic
// within a WebFile stream (spec §4.3/§6).
const unityBrotliMagicOffset = 0x20

// unityBrotliMagic is the signature Unity writes at unityBrotliMagicOffset
// to mark a WebFile as Brotli-compressed.
var unityBrotliMagic = []byte{0x1e, 0x9b, 0xc7, 0x5e, 0x08, 0x00}

// IsBrotliFramed reports whether data carries Unity's Brotli magic at the
// fixed WebFile offset.
func IsBrotliFramed(data []byte) bool {
	if len(data) < unityBrotliMagicOffset+len(unityBrotliMagic) {
		return false
	}
	return bytes.Equal(data[unityBrotliMagicOffset:unityBrotliMagicOffset+len(unityBrotliMagic)], unityBrotliMagic)
}

// decompressBrotliBlock decompresses a raw Brotli stream (used for
// AssetBundle blocks-info / block data with the Brotli compression flag).
func decompressBrotliBlock(compressed []byte, expectedSize int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(compressed))
	if expectedSize > 0 {
		out := make([]byte, expectedSize)
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, fmt.Errorf("brotli decompress: %w", err)
		}
		return out, nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("brotli decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressBrotliStream decompresses a whole Brotli-framed WebFile
// stream, used by container.sniffAndDecompress.
func DecompressBrotliStream(data []byte) ([]byte, error) {
	return decompressBrotliBlock(data, 0)
}
