// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package compress

import (
	"bytes"
	"fmt"
	"io"

	pgzip "github.com/klauspost/pgzip"
)

// gzipMagic is the standard gzip member signature Unity's WebFile sniffs
// for (spec §4.3/§6).
var gzipMagic = []byte{0x1F, 0x8B}

// IsGzipFramed reports whether data starts with the gzip magic.
func IsGzipFramed(data []byte) bool {
	return len(data) >= 2 && bytes.Equal(data[:2], gzipMagic)
}

// DecompressGzipStream decompresses a whole gzip-framed WebFile stream.
// pgzip is a drop-in, concurrency-capable compress/gzip replacement; a
// WebFile's outer gzip member is typically one contiguous stream, so the
// parallelism mainly pays for itself on larger bundles.
func DecompressGzipStream(data []byte) ([]byte, error) {
	r, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return buf.Bytes(), nil
}
