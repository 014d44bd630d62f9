// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

import (
	"bytes"
	"encoding/binary"

	"github.com/saferwall/unityasset/core"
)

// EmitBundle re-serializes b's header, blocks-info, and directory, reusing
// the already-decompressed data section uncompressed (compression id
// None) in a single block. This covers the common round-trip case this
// library itself produces (a bundle it just parsed and wants to re-emit
// after in-place edits); splitting the data section back across multiple
// compressed blocks matching the original layout is not implemented — see
// the TODO below.
//
// TODO(emit): re-chunk b.data across len(b.Blocks) blocks with each
// block's original compression id, instead of collapsing everything into
// one uncompressed block, so byte-for-byte layout (not just content) is
// preserved for bundles with more than one block.
func EmitBundle(b *Bundle) ([]byte, error) {
	const op = "container.EmitBundle"

	var infoBuf bytes.Buffer
	infoBuf.Write(b.UncompressedDataHash[:])
	writeU32(&infoBuf, 1) // single re-chunked block
	writeU32(&infoBuf, uint32(len(b.data)))
	writeU32(&infoBuf, uint32(len(b.data)))
	writeU16(&infoBuf, 0) // compression id 0 = None

	writeU32(&infoBuf, uint32(len(b.Entries)))
	for _, e := range b.Entries {
		writeI64(&infoBuf, e.Offset)
		writeI64(&infoBuf, e.Size)
		writeU32(&infoBuf, e.Flags)
		infoBuf.WriteString(e.Path)
		infoBuf.WriteByte(0)
	}

	var out bytes.Buffer
	out.WriteString(b.Signature)
	out.WriteByte(0)
	writeU32(&out, b.StreamVersion)
	out.WriteString(b.UnityVersion)
	out.WriteByte(0)
	out.WriteString(b.UnityRevision)
	out.WriteByte(0)

	if b.Signature == "UnityFS" {
		writeU64(&out, uint64(int64(headerTailSize(infoBuf.Len(), len(b.data)))))
	} else {
		writeU32(&out, uint32(headerTailSize(infoBuf.Len(), len(b.data))))
	}
	writeU32(&out, uint32(infoBuf.Len()))
	writeU32(&out, uint32(infoBuf.Len()))
	writeU32(&out, 0) // flags: compression None, info inline

	out.Write(infoBuf.Bytes())
	out.Write(b.data)

	if out.Len() == 0 {
		return nil, core.NewError(core.KindIO, op, bytes.ErrTooLarge)
	}
	return out.Bytes(), nil
}

func headerTailSize(infoLen, dataLen int) int { return infoLen + dataLen }

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeI64(buf *bytes.Buffer, v int64) { writeU64(buf, uint64(v)) }
