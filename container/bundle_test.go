// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

import (
	"bytes"
	"compress/gzip"
	"testing"
)

// buildMinimalUnityFS hand-assembles a single-block, two-file UnityFS
// bundle with no compression, exercising the exact byte layout spec §4.3
// describes (seed scenario 5).
func buildMinimalUnityFS(fileA, fileB []byte) []byte {
	data := append(append([]byte{}, fileA...), fileB...)

	var info bytes.Buffer
	info.Write(make([]byte, 16)) // zeroed hash: skip verification
	writeU32(&info, 1)           // 1 block
	writeU32(&info, uint32(len(data)))
	writeU32(&info, uint32(len(data)))
	writeU16(&info, 0) // compression None

	writeU32(&info, 2) // 2 files
	writeI64(&info, 0)
	writeI64(&info, int64(len(fileA)))
	writeU32(&info, 0)
	info.WriteString("CAB-a.resource")
	info.WriteByte(0)

	writeI64(&info, int64(len(fileA)))
	writeI64(&info, int64(len(fileB)))
	writeU32(&info, 0)
	info.WriteString("CAB-b.resource")
	info.WriteByte(0)

	var out bytes.Buffer
	out.WriteString("UnityFS")
	out.WriteByte(0)
	writeU32(&out, 6) // stream version
	out.WriteString("2021.3.5f1")
	out.WriteByte(0)
	out.WriteString("2021.3.5f1")
	out.WriteByte(0)

	total := int64(7 + 1 + 4 + 11 + 11 + 8 + 4 + 4 + 4 + info.Len() + len(data))
	writeU64(&out, uint64(total))
	writeU32(&out, uint32(info.Len()))
	writeU32(&out, uint32(info.Len()))
	writeU32(&out, 0) // flags: compression None, info inline

	out.Write(info.Bytes())
	out.Write(data)

	return out.Bytes()
}

func TestParseBundleRoundTripFileEntries(t *testing.T) {
	fileA := bytes.Repeat([]byte{0xAA}, 16)
	fileB := []byte("hello from file b")
	raw := buildMinimalUnityFS(fileA, fileB)

	b, err := ParseBundle(raw, nil)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}

	names := b.Files()
	if len(names) != 2 || names[0] != "CAB-a.resource" || names[1] != "CAB-b.resource" {
		t.Fatalf("Files() = %v, want [CAB-a.resource CAB-b.resource]", names)
	}

	gotA, err := b.ExtractFile("CAB-a.resource")
	if err != nil {
		t.Fatalf("ExtractFile(a): %v", err)
	}
	if !bytes.Equal(gotA, fileA) {
		t.Fatalf("ExtractFile(a) mismatch")
	}

	gotB, err := b.ExtractFile("CAB-b.resource")
	if err != nil {
		t.Fatalf("ExtractFile(b): %v", err)
	}
	if !bytes.Equal(gotB, fileB) {
		t.Fatalf("ExtractFile(b) mismatch")
	}
}

func TestParseBundleConcatenationMatchesMaterializedData(t *testing.T) {
	fileA := []byte("aaaa")
	fileB := []byte("bbbbbb")
	raw := buildMinimalUnityFS(fileA, fileB)

	b, err := ParseBundle(raw, nil)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	var concat []byte
	for _, name := range b.Files() {
		chunk, err := b.ExtractFile(name)
		if err != nil {
			t.Fatalf("ExtractFile(%s): %v", name, err)
		}
		concat = append(concat, chunk...)
	}
	want := append(append([]byte{}, fileA...), fileB...)
	if !bytes.Equal(concat, want) {
		t.Fatalf("concatenation mismatch: got %d bytes, want %d", len(concat), len(want))
	}
}

func TestParseBundleInvalidSignature(t *testing.T) {
	_, err := ParseBundle([]byte("NotAUnityBundle\x00"), nil)
	if err == nil {
		t.Fatal("ParseBundle with bad signature returned nil error")
	}
}

func TestParseBundleFileEntryOutOfBoundsIsCorruptStream(t *testing.T) {
	raw := buildMinimalUnityFS([]byte("a"), []byte("b"))
	b, err := ParseBundle(raw, nil)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	b.Entries[0].Size = 999999
	if _, err := b.ExtractFile(b.Entries[0].Path); err == nil {
		t.Fatal("ExtractFile with out-of-bounds entry returned nil error")
	}
}

func TestSniffPriority(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"bundle", append([]byte("UnityFS"), 0), KindBundle},
		{"webfile", append([]byte("UnityWebData"), 0), KindWebFile},
		{"tuanjie", append([]byte("TuanjieWebData"), 0), KindWebFile},
		{"yaml", []byte("%YAML 1.1\n"), KindYAML},
		{"unknown", []byte{1, 2, 3}, KindUnknown},
	}
	for _, tt := range tests {
		if got := Sniff(tt.data); got != tt.want {
			t.Errorf("Sniff(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecompressIfFramedGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte("hi")); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	out, err := DecompressIfFramed(buf.Bytes())
	if err != nil {
		t.Fatalf("DecompressIfFramed: %v", err)
	}
	if string(out) != "hi" {
		t.Fatalf("DecompressIfFramed = %q, want hi", out)
	}
}
