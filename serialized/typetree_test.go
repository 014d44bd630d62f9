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

func writeBlobNode(buf *bytes.Buffer, version uint16, level, typeFlags uint8, typeOff, fieldOff uint32, byteSize, index, metaFlag int32) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], version)
	buf.Write(b[:])
	buf.WriteByte(level)
	buf.WriteByte(typeFlags)
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], typeOff)
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], fieldOff)
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], uint32(byteSize))
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], uint32(index))
	buf.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], uint32(metaFlag))
	buf.Write(u32[:])
}

func TestParseBlobTypeTreeTwoNodes(t *testing.T) {
	var strBuf bytes.Buffer
	rootTypeOff := uint32(strBuf.Len())
	strBuf.WriteString("GameObject")
	strBuf.WriteByte(0)
	rootFieldOff := uint32(strBuf.Len())
	strBuf.WriteByte(0) // empty field name
	childTypeOff := uint32(strBuf.Len())
	strBuf.WriteString("int")
	strBuf.WriteByte(0)
	childFieldOff := uint32(strBuf.Len())
	strBuf.WriteString("m_Layer")
	strBuf.WriteByte(0)

	var body bytes.Buffer
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], 2) // node_count
	body.Write(u32[:])
	binary.BigEndian.PutUint32(u32[:], uint32(strBuf.Len())) // string_buffer_size
	body.Write(u32[:])

	writeBlobNode(&body, 1, 0, 0, rootTypeOff, rootFieldOff, -1, 0, 0)
	writeBlobNode(&body, 1, 1, 0, childTypeOff, childFieldOff, 4, 1, 0)
	body.Write(strBuf.Bytes())

	r := reader.New(body.Bytes(), binary.BigEndian)
	tree, err := parseBlobTypeTree(r)
	if err != nil {
		t.Fatalf("parseBlobTypeTree: %v", err)
	}
	if len(tree.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(tree.Nodes))
	}
	if tree.Nodes[0].TypeName != "GameObject" || tree.Nodes[0].Level != 0 {
		t.Errorf("root node = %+v", tree.Nodes[0])
	}
	if tree.Nodes[1].TypeName != "int" || tree.Nodes[1].FieldName != "m_Layer" || tree.Nodes[1].Level != 1 {
		t.Errorf("child node = %+v", tree.Nodes[1])
	}

	start, end := tree.Children(0)
	if end-start != 1 || start != 1 {
		t.Errorf("Children(0) = [%d,%d), want [1,2)", start, end)
	}
}

func TestCstringAtOutOfRange(t *testing.T) {
	if got := cstringAt([]byte("abc"), 10); got != "" {
		t.Errorf("cstringAt out-of-range = %q, want empty", got)
	}
}

func TestDirectChildrenSkipsGrandchildren(t *testing.T) {
	tree := &TypeTree{Nodes: []TypeTreeNode{
		{TypeName: "Root", Level: 0},
		{TypeName: "A", Level: 1},
		{TypeName: "nested", Level: 2},
		{TypeName: "B", Level: 1},
	}}
	children := tree.directChildren(0)
	if len(children) != 2 || children[0] != 1 || children[1] != 3 {
		t.Errorf("directChildren(0) = %v, want [1 3]", children)
	}
}
