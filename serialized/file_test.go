// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package serialized

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildSerializedHeader assembles a minimal SerializedFile without an
// embedded type tree (enable_type_tree = false) and a single object-
// directory entry, with the version-gated metadata fields shaped for
// version; the v>=22 widened header block is not written.
func buildSerializedHeader(t *testing.T, version uint32, objPathID int64, objByteStart int64, objByteSize uint32, objTypeID int32) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteByte(1) // endianness: big-endian
	body.Write([]byte{0, 0, 0})
	body.WriteString("2021.3.5f1")
	body.WriteByte(0)
	writeU32(&body, 19) // target_platform
	body.WriteByte(0)   // enable_type_tree = false

	writeU32(&body, 0) // type_count = 0

	writeU32(&body, 1) // object_count = 1
	if version >= versionWidenedPathID {
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
		writeU64(&body, uint64(objPathID))
	} else {
		writeU32(&body, uint32(objPathID))
	}
	if version >= versionWidenedByteStart {
		writeU64(&body, uint64(objByteStart))
	} else {
		writeU32(&body, uint32(objByteStart))
	}
	writeU32(&body, objByteSize)
	writeI32(&body, objTypeID)
	if version < versionHasClassID16 {
		writeI16(&body, 1) // class_id
		writeI16(&body, 0) // is_destroyed
	}

	if version >= versionHasScriptTable {
		writeU32(&body, 0) // script_count = 0
	}
	writeU32(&body, 0) // external-reference count = 0

	metadataSize := uint32(body.Len())

	var out bytes.Buffer
	writeU32(&out, metadataSize)
	writeU32(&out, 0) // file_size placeholder
	writeU32(&out, version)
	writeU32(&out, 0) // data_offset placeholder
	out.Write(body.Bytes())
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

func writeI16(buf *bytes.Buffer, v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func TestParseHeaderModernVersion(t *testing.T) {
	raw := buildSerializedHeader(t, 21, 123456, 0, 64, 1)
	f, err := Parse(raw, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Version != 21 {
		t.Errorf("Version = %d, want 21", f.Version)
	}
	if f.EnableTypeTree {
		t.Error("EnableTypeTree = true, want false")
	}
	if len(f.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(f.Objects))
	}
	obj := f.Objects[0]
	if obj.PathID != 123456 {
		t.Errorf("PathID = %d, want 123456", obj.PathID)
	}
	if obj.ByteSize != 64 {
		t.Errorf("ByteSize = %d, want 64", obj.ByteSize)
	}
	if obj.ClassID != 0 {
		t.Errorf("ClassID = %d, want 0 (not present at v>=17)", obj.ClassID)
	}
}

func TestParseHeaderLegacyVersionHasClassID(t *testing.T) {
	raw := buildSerializedHeader(t, 15, 42, 0, 16, 2)
	f, err := Parse(raw, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(f.Objects))
	}
	obj := f.Objects[0]
	if obj.PathID != 42 {
		t.Errorf("PathID = %d, want 42", obj.PathID)
	}
	if obj.ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", obj.ClassID)
	}
}

func TestParseHeaderRejectsTruncatedBuffer(t *testing.T) {
	_, err := Parse([]byte{0, 0}, nil)
	if err == nil {
		t.Fatal("Parse with truncated buffer returned nil error")
	}
}

func TestObjectBodyOutOfBoundsIsCorruptStream(t *testing.T) {
	raw := buildSerializedHeader(t, 21, 1, 0, 4, 1)
	f, err := Parse(raw, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f.Objects[0].ByteSize = 999999
	if _, err := f.ObjectBody(f.Objects[0]); err == nil {
		t.Fatal("ObjectBody with out-of-bounds entry returned nil error")
	}
}
