// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package compress

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// decompressLZ4 decompresses a raw (headerless) LZ4 block, as Unity's
// AssetBundle block format stores it. expectedSize, when known, sizes the
// destination buffer exactly; otherwise a generous multiple of the
// compressed size is tried and grown on ErrInvalidSourceShortBuffer,
// mirroring arloliu-mebo/compress/lz4.go's adaptive-buffer strategy.
func decompressLZ4(compressed []byte, expectedSize int) ([]byte, error) {
	if len(compressed) == 0 {
		return nil, nil
	}

	if expectedSize > 0 {
		dst := make([]byte, expectedSize)
		n, err := lz4.UncompressBlock(compressed, dst)
		if err != nil {
			return nil, err
		}
		return dst[:n], nil
	}

	bufSize := len(compressed) * 4
	const maxSize = 256 * 1024 * 1024
	for {
		dst := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(compressed, dst)
		if err == nil {
			return dst[:n], nil
		}
		if err != lz4.ErrInvalidSourceShortBuffer || bufSize >= maxSize {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		bufSize *= 2
	}
}
