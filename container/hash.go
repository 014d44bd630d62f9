// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/saferwall/unityasset/internal/logx"
)

// verifyBlocksInfoHash is a best-effort sanity check of the 16-byte
// uncompressed-data hash field Unity stores ahead of the block table.
// Unity's own hash is a platform MD4/MD5 variant we don't reimplement;
// instead this folds an xxhash64 digest of the decompressed blocks-info
// buffer into 16 bytes and logs a warning when a non-zero stored hash
// differs from it (an all-zero stored hash is not checked), exactly like
// the teacher treats its own non-fatal findings (pe.go's Anomalies side channel) — it never aborts
// the parse.
func verifyBlocksInfoHash(want [16]byte, infoBuf []byte, logger *logx.Helper) {
	if want == ([16]byte{}) {
		// Some writers leave the hash zeroed; nothing to check.
		return
	}
	got := foldedXXHash(infoBuf)
	if got == want {
		return
	}
	logger.Warnf("blocks-info hash mismatch (informational only, not Unity's own hash algorithm)")
}

// foldedXXHash produces a 16-byte digest from two xxhash64 passes (the
// buffer, then the buffer's reverse) — a cheap, dependency-light stand-in
// for a 128-bit digest since xxhash/v2 only exposes the 64-bit sum.
func foldedXXHash(data []byte) [16]byte {
	var out [16]byte
	h1 := xxhash.Sum64(data)
	binary.BigEndian.PutUint64(out[:8], h1)

	rev := make([]byte, len(data))
	for i, b := range data {
		rev[len(data)-1-i] = b
	}
	h2 := xxhash.Sum64(rev)
	binary.BigEndian.PutUint64(out[8:], h2)
	return out
}
