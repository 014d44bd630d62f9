// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package serialized

import (
	"fmt"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/reader"
)

// refTypeHashVersion is the type-tree node version at which a trailing
// ref_type_hash field was added to the blob-form node record.
const refTypeHashVersion = 19

// blobFormVersion is the SerializedFile format version at which type trees
// switched from the node-recursive legacy wire form to the flat blob form.
const blobFormVersion = 12

// builtinStringOffsetBit marks a string-buffer offset as indexing Unity's
// built-in common-string pool rather than the type tree's own inline pool.
const builtinStringOffsetBit = uint32(0x80000000)

// TypeTreeNode is one entry of a flattened type tree: a field declaration
// at a given nesting level, whose parent is the nearest preceding node one
// level shallower.
type TypeTreeNode struct {
	Version     uint16
	Level       uint8
	TypeFlags   uint8
	TypeName    string
	FieldName   string
	ByteSize    int32
	Index       int32
	MetaFlag    int32
	RefTypeHash uint64
}

// AlignAfter reports whether this node's meta flag asks the cursor to
// advance to the next 4-byte boundary once the node's body is consumed.
func (n TypeTreeNode) AlignAfter() bool { return n.MetaFlag&0x4000 != 0 }

// IsVariableSize reports whether the node's declared size is the
// variable-length sentinel rather than a fixed byte count.
func (n TypeTreeNode) IsVariableSize() bool { return n.ByteSize == -1 }

// TypeTree is the flattened node array describing one object type's
// on-disk layout, as read from either wire form (spec §4.5).
type TypeTree struct {
	Nodes []TypeTreeNode
}

// Children returns the index range [start, end) of i's whole subtree
// (children and all deeper descendants) within t.Nodes, given i is itself
// a valid index.
func (t *TypeTree) Children(i int) (start, end int) {
	if i < 0 || i >= len(t.Nodes) {
		return 0, 0
	}
	level := t.Nodes[i].Level
	start = i + 1
	end = start
	for end < len(t.Nodes) && t.Nodes[end].Level > level {
		end++
	}
	return start, end
}

// directChildren returns only the nodes one level below i, skipping
// grandchildren (each returned index can itself be walked via Children).
func (t *TypeTree) directChildren(i int) []int {
	start, end := t.Children(i)
	if start >= end {
		return nil
	}
	level := t.Nodes[i].Level + 1
	var out []int
	for j := start; j < end; j++ {
		if t.Nodes[j].Level == level {
			out = append(out, j)
		}
	}
	return out
}

// builtinStrings is a small table of Unity's most common type/field names
// that ship in the engine's built-in string pool rather than a per-type
// inline buffer. It is not exhaustive: an offset into this pool that misses
// falls back to a synthetic placeholder rather than failing the parse,
// since the pool's full contents are not published.
var builtinStrings = map[uint32]string{
	0:    "AABB",
	5:    "AnimationClip",
	19:   "AnimationCurve",
	34:   "AnimationState",
	49:   "Array",
	55:   "Base",
	60:   "BitField",
	69:   "bitset",
	76:   "bool",
	81:   "char",
	86:   "ColorRGBA",
	96:   "Component",
	106:  "data",
	111:  "deque",
	117:  "double",
	124:  "dynamic_array",
	138:  "FastPropertyName",
	155:  "first",
	161:  "float",
	167:  "Font",
	172:  "GameObject",
	183:  "Generic Mono",
	196:  "GradientNEW",
	208:  "GUID",
	213:  "GUIStyle",
	222:  "int",
	226:  "list",
	231:  "long long",
	241:  "map",
	245:  "Matrix4x4f",
	256:  "MdFour",
	263:  "MonoBehaviour",
	277:  "MonoScript",
	288:  "m_ByteSize",
	299:  "m_Curve",
	307:  "m_EditorClassIdentifier",
	331:  "m_EditorHideFlags",
	349:  "m_Enabled",
	359:  "m_ExtensionPtr",
	374:  "m_GameObject",
	387:  "m_Index",
	395:  "m_IsArray",
	405:  "m_IsStatic",
	416:  "m_MetaFlag",
	427:  "m_Name",
	434:  "m_ObjectHideFlags",
	452:  "m_PrefabInternal",
	469:  "m_PrefabParentObject",
	490:  "m_Script",
	499:  "m_StaticEditorFlags",
	519:  "m_Type",
	526:  "m_Version",
	536:  "Object",
	543:  "pair",
	548:  "PPtr<Component>",
	564:  "PPtr<GameObject>",
	581:  "PPtr<Material>",
	596:  "PPtr<MonoBehaviour>",
	616:  "PPtr<MonoScript>",
	633:  "PPtr<Object>",
	646:  "PPtr<Prefab>",
	659:  "PPtr<Sprite>",
	672:  "PPtr<TextAsset>",
	688:  "PPtr<Texture>",
	702:  "PPtr<Texture2D>",
	718:  "PPtr<Transform>",
	734:  "Prefab",
	741:  "Quaternionf",
	753:  "Rectf",
	759:  "RectInt",
	767:  "RectOffset",
	778:  "second",
	785:  "set",
	789:  "short",
	795:  "size",
	800:  "SInt16",
	807:  "SInt32",
	814:  "SInt64",
	821:  "SInt8",
	827:  "staticvector",
	840:  "string",
	847:  "TextAsset",
	857:  "TextMesh",
	866:  "Texture",
	874:  "Texture2D",
	884:  "Transform",
	894:  "TypelessData",
	907:  "UInt16",
	914:  "UInt32",
	921:  "UInt64",
	928:  "UInt8",
	934:  "unsigned int",
	947:  "unsigned long long",
	966:  "unsigned short",
	981:  "vector",
	988:  "Vector2f",
	997:  "Vector3f",
	1006: "Vector4f",
	1015: "m_ScriptingClassIdentifier",
	1042: "Gradient",
	1051: "Type*",
}

func lookupBuiltinString(offset uint32) (string, bool) {
	s, ok := builtinStrings[offset]
	return s, ok
}

// parseBlobTypeTree reads the flat, fixed-record type tree introduced in
// SerializedFile format v12 (spec §4.5's "blob form").
func parseBlobTypeTree(r *reader.Reader) (*TypeTree, error) {
	const op = "serialized.parseBlobTypeTree"

	nodeCount, err := r.ReadI32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	stringBufSize, err := r.ReadI32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if nodeCount < 0 || stringBufSize < 0 {
		return nil, core.NewError(core.KindCorruptStream, op, fmt.Errorf("negative node/string-buffer size"))
	}

	type rawNode struct {
		version         uint16
		level           uint8
		typeFlags       uint8
		typeNameOffset  uint32
		fieldNameOffset uint32
		byteSize        int32
		index           int32
		metaFlag        int32
		refTypeHash     uint64
	}
	raws := make([]rawNode, nodeCount)
	for i := range raws {
		version, err := r.ReadU16()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		level, err := r.ReadU8()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		typeFlags, err := r.ReadU8()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		typeNameOffset, err := r.ReadU32()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		fieldNameOffset, err := r.ReadU32()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		byteSize, err := r.ReadI32()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		index, err := r.ReadI32()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		metaFlag, err := r.ReadI32()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		var refTypeHash uint64
		if version >= refTypeHashVersion {
			if refTypeHash, err = r.ReadU64(); err != nil {
				return nil, core.NewError(core.KindIO, op, err)
			}
		}
		raws[i] = rawNode{version, level, typeFlags, typeNameOffset, fieldNameOffset, byteSize, index, metaFlag, refTypeHash}
	}

	strBuf, err := r.ReadBytes(int(stringBufSize))
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	resolve := func(offset uint32) string {
		if offset&builtinStringOffsetBit != 0 {
			if s, ok := lookupBuiltinString(offset &^ builtinStringOffsetBit); ok {
				return s
			}
			return fmt.Sprintf("<builtin@%d>", offset&^builtinStringOffsetBit)
		}
		return cstringAt(strBuf, int(offset))
	}

	t := &TypeTree{Nodes: make([]TypeTreeNode, nodeCount)}
	for i, rn := range raws {
		t.Nodes[i] = TypeTreeNode{
			Version:     rn.version,
			Level:       rn.level,
			TypeFlags:   rn.typeFlags,
			TypeName:    resolve(rn.typeNameOffset),
			FieldName:   resolve(rn.fieldNameOffset),
			ByteSize:    rn.byteSize,
			Index:       rn.index,
			MetaFlag:    rn.metaFlag,
			RefTypeHash: rn.refTypeHash,
		}
	}
	return t, nil
}

// cstringAt reads a NUL-terminated string starting at offset within buf,
// returning "" if offset is out of range.
func cstringAt(buf []byte, offset int) string {
	if offset < 0 || offset >= len(buf) {
		return ""
	}
	end := offset
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[offset:end])
}

// parseLegacyTypeTree reads the node-recursive wire form used before v12,
// flattening the recursion into the same []TypeTreeNode representation the
// blob form produces, so downstream dispatch never needs to know which
// form a given object type arrived in.
func parseLegacyTypeTree(r *reader.Reader) (*TypeTree, error) {
	t := &TypeTree{}
	if err := parseLegacyNode(r, 0, t); err != nil {
		return nil, err
	}
	return t, nil
}

func parseLegacyNode(r *reader.Reader, level uint8, t *TypeTree) error {
	const op = "serialized.parseLegacyTypeTree"

	typeName, err := r.ReadCString()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	name, err := r.ReadCString()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	byteSize, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	index, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	isArray, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	version, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	metaFlag, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	childCount, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}

	typeFlags := uint8(0)
	if isArray != 0 {
		typeFlags = 1
	}
	t.Nodes = append(t.Nodes, TypeTreeNode{
		Version:   uint16(version),
		Level:     level,
		TypeFlags: typeFlags,
		TypeName:  typeName,
		FieldName: name,
		ByteSize:  byteSize,
		Index:     index,
		MetaFlag:  metaFlag,
	})

	for i := int32(0); i < childCount; i++ {
		if err := parseLegacyNode(r, level+1, t); err != nil {
			return err
		}
	}
	return nil
}

// parseTypeTree dispatches to the blob or node-recursive wire form based on
// the SerializedFile format version.
func parseTypeTree(r *reader.Reader, version uint32) (*TypeTree, error) {
	if version >= blobFormVersion {
		return parseBlobTypeTree(r)
	}
	return parseLegacyTypeTree(r)
}
