// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// decompressLZMA decompresses Unity's LZMA-compressed blocks. Unity writes
// the 5-byte LZMA properties header (lc/lp/pb + dictionary size) followed
// by raw LZMA stream data without the xz container, so this reads through
// lzma.NewReader directly rather than xz.NewReader.
func decompressLZMA(compressed []byte, expectedSize int) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("lzma reader: %w", err)
	}

	if expectedSize > 0 {
		out := make([]byte, expectedSize)
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, fmt.Errorf("lzma decompress: %w", err)
		}
		return out, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("lzma decompress: %w", err)
	}
	return buf.Bytes(), nil
}
