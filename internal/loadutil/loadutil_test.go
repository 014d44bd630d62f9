// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package loadutil

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/saferwall/unityasset/serialized"
)

// buildSerializedFileNoTree assembles a minimal, tree-less SerializedFile
// (enable_type_tree = false) with a single object-directory entry,
// mirroring serialized's own test fixture since that package's helpers
// are unexported.
func buildSerializedFileNoTree(pathID int64, typeID int32) []byte {
	var body bytes.Buffer
	body.WriteByte(1) // endianness: big-endian
	body.Write([]byte{0, 0, 0})
	body.WriteString("2021.3.5f1")
	body.WriteByte(0)
	writeU32(&body, 19) // target_platform
	body.WriteByte(0)   // enable_type_tree = false

	writeU32(&body, 0) // type_count = 0

	writeU32(&body, 1) // object_count = 1
	for body.Len()%4 != 0 {
		body.WriteByte(0)
	}
	writeU64(&body, uint64(pathID))
	writeU32(&body, 0)  // byte_start (u32: version 21 < widened-byte-start threshold 22)
	writeU32(&body, 16) // byte_size
	writeI32(&body, typeID)

	writeU32(&body, 0) // script_count = 0
	writeU32(&body, 0) // external-reference count = 0

	metadataSize := uint32(body.Len())

	var out bytes.Buffer
	writeU32(&out, metadataSize)
	writeU32(&out, 0)
	writeU32(&out, 21) // version
	writeU32(&out, 0)
	out.Write(body.Bytes())
	out.Write(make([]byte, 16)) // object body padding
	return out.Bytes()
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

func writeI32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func TestDocumentFromEntriesSkipsNonSerializedFiles(t *testing.T) {
	doc, err := DocumentFromEntries("bundle.unity3d", map[string][]byte{
		"CAB-a.resS": []byte("raw streaming bytes, not a SerializedFile"),
	}, nil)
	if err != nil {
		t.Fatalf("DocumentFromEntries: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (sibling resource should be skipped, not decoded)", doc.Len())
	}
}

func TestDocumentFromEntriesSkipsTreelessObjects(t *testing.T) {
	raw := buildSerializedFileNoTree(123456, 1)
	doc, err := DocumentFromEntries("CAB-a", map[string][]byte{"CAB-a": raw}, nil)
	if err != nil {
		t.Fatalf("DocumentFromEntries: %v", err)
	}
	// The fixture has no type-table entries, so DecodeObject fails for
	// every object; classFromObject logs and skips rather than erroring.
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (object has no embedded type tree)", doc.Len())
	}
}

func TestDocumentFromSerializedFileWrapsExisting(t *testing.T) {
	raw := buildSerializedFileNoTree(1, 1)
	sf, err := serialized.Parse(raw, nil)
	if err != nil {
		t.Fatalf("serialized.Parse: %v", err)
	}
	doc, err := DocumentFromSerializedFile("CAB-a", sf, nil)
	if err != nil {
		t.Fatalf("DocumentFromSerializedFile: %v", err)
	}
	if doc.SourcePath != "CAB-a" {
		t.Errorf("SourcePath = %q, want %q", doc.SourcePath, "CAB-a")
	}
}
