// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package serialized

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/saferwall/unityasset/reader"
)

func gameObjectTree() *TypeTree {
	return &TypeTree{Nodes: []TypeTreeNode{
		{TypeName: "GameObject", FieldName: "Base", Level: 0, ByteSize: -1},
		{TypeName: "int", FieldName: "m_Layer", Level: 1, ByteSize: 4},
		{TypeName: "string", FieldName: "m_Name", Level: 1, ByteSize: -1, MetaFlag: 0x4000},
		{TypeName: "bool", FieldName: "m_IsActive", Level: 1, ByteSize: 1},
	}}
}

func buildGameObjectBody(t *testing.T, layer int32, name string, active bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	var i32 [4]byte
	binary.BigEndian.PutUint32(i32[:], uint32(layer))
	buf.Write(i32[:])

	binary.BigEndian.PutUint32(i32[:], uint32(len(name)))
	buf.Write(i32[:])
	buf.WriteString(name)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}

	if active {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func TestObjectDecoderCompositeFields(t *testing.T) {
	body := buildGameObjectBody(t, 7, "Go", true)
	r := reader.New(body, binary.BigEndian)
	d := &objectDecoder{tree: gameObjectTree(), r: r}

	v, err := d.decodeNode(0)
	if err != nil {
		t.Fatalf("decodeNode: %v", err)
	}
	obj, ok := v.AsObject()
	if !ok {
		t.Fatal("decoded value is not an object")
	}
	layer, _ := obj.Get("m_Layer")
	if got, _ := layer.AsInt(); got != 7 {
		t.Errorf("m_Layer = %d, want 7", got)
	}
	name, _ := obj.Get("m_Name")
	if got, _ := name.AsString(); got != "Go" {
		t.Errorf("m_Name = %q, want Go", got)
	}
	active, _ := obj.Get("m_IsActive")
	if got, _ := active.AsBool(); !got {
		t.Errorf("m_IsActive = false, want true")
	}
	if got := obj.Keys(); len(got) != 3 || got[0] != "m_Layer" || got[1] != "m_Name" || got[2] != "m_IsActive" {
		t.Errorf("Keys() = %v, want [m_Layer m_Name m_IsActive]", got)
	}
}

func TestDecodeObjectRejectsMissingTypeEntry(t *testing.T) {
	f := &File{Types: nil, Endianness: binary.BigEndian}
	_, err := DecodeObject(f, ObjectEntry{TypeID: 99})
	if err == nil {
		t.Fatal("DecodeObject with unknown type_id returned nil error")
	}
}

func TestDecodeObjectUnsupportedWithoutTypeTree(t *testing.T) {
	f := &File{
		Types:      []TypeEntry{{TypeID: 1, Tree: nil}},
		Endianness: binary.BigEndian,
	}
	_, err := DecodeObject(f, ObjectEntry{TypeID: 1, ByteStart: 0, ByteSize: 0})
	if err == nil {
		t.Fatal("DecodeObject with no embedded tree returned nil error")
	}
}

func TestDecodeArraySizeField(t *testing.T) {
	tree := &TypeTree{Nodes: []TypeTreeNode{
		{TypeName: "Array", FieldName: "m_Values", Level: 0, ByteSize: -1},
		{TypeName: "int", FieldName: "size", Level: 1, ByteSize: 4},
		{TypeName: "int", FieldName: "data", Level: 1, ByteSize: 4},
	}}
	var buf bytes.Buffer
	var i32 [4]byte
	binary.BigEndian.PutUint32(i32[:], 3) // size = 3
	buf.Write(i32[:])
	for _, n := range []int32{10, 20, 30} {
		binary.BigEndian.PutUint32(i32[:], uint32(n))
		buf.Write(i32[:])
	}

	r := reader.New(buf.Bytes(), binary.BigEndian)
	d := &objectDecoder{tree: tree, r: r}
	v, err := d.decodeNode(0)
	if err != nil {
		t.Fatalf("decodeNode: %v", err)
	}
	arr, ok := v.AsArray()
	if !ok || len(arr) != 3 {
		t.Fatalf("AsArray() = %v, %v; want 3-element array", arr, ok)
	}
	for i, want := range []int64{10, 20, 30} {
		if got, _ := arr[i].AsInt(); got != want {
			t.Errorf("arr[%d] = %d, want %d", i, got, want)
		}
	}
}
