// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package serialized

import (
	"fmt"
	"math"
	"strings"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/reader"
)

// primitiveWidths maps a type tree's primitive type names to their
// on-disk byte width (spec §4.5 step 2); floatPrimitives and
// boolPrimitives below classify them, everything else is an integer.
var primitiveWidths = map[string]int{
	"char": 1, "SInt8": 1, "UInt8": 1, "bool": 1,
	"short": 2, "SInt16": 2, "UInt16": 2,
	"int": 4, "SInt32": 4, "UInt32": 4, "float": 4,
	"long long": 8, "SInt64": 8, "UInt64": 8, "double": 8,
}

var floatPrimitives = map[string]bool{"float": true, "double": true}
var boolPrimitives = map[string]bool{"bool": true}

// DecodeObject parses entry's body against its type tree into a core.Value
// object, per the recursive-descent algorithm in spec §4.5. If the entry's
// type carries no embedded tree (enable_type_tree == false), it returns
// KindUnsupported — only a compiled-in minimal schema can help there, and
// none is wired into this generic path (spec §4.5's documented fallback).
func DecodeObject(f *File, entry ObjectEntry) (core.Value, error) {
	const op = "serialized.DecodeObject"

	typ, ok := f.TypeEntryFor(entry.TypeID)
	if !ok {
		return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
			fmt.Errorf("no type-table entry for type_id %d", entry.TypeID))
	}
	if typ.Tree == nil || len(typ.Tree.Nodes) == 0 {
		return core.Value{}, core.NewError(core.KindUnsupported, op,
			fmt.Errorf("object (path_id=%d) has no embedded type tree", entry.PathID))
	}

	body, err := f.ObjectBody(entry)
	if err != nil {
		return core.Value{}, err
	}

	r := reader.New(body, f.Endianness)
	d := &objectDecoder{tree: typ.Tree, r: r}
	v, err := d.decodeNode(0)
	if err != nil {
		return core.Value{}, err
	}
	if r.Position() != len(body) {
		// Trailing alignment padding from the root node is normal; a large
		// gap indicates the tree didn't match the body.
		if len(body)-r.Position() > 4 {
			return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
				fmt.Errorf("consumed %d of %d body bytes for path_id=%d", r.Position(), len(body), entry.PathID))
		}
	}
	return v, nil
}

type objectDecoder struct {
	tree *TypeTree
	r    *reader.Reader
}

// decodeNode parses the node at index i (and implicitly its children),
// aligns the reader to 4 bytes afterwards when the node's meta flags ask
// for it, and returns the value it produced.
func (d *objectDecoder) decodeNode(i int) (core.Value, error) {
	node := d.tree.Nodes[i]

	v, err := d.decodeNodeBody(i, node)
	if err != nil {
		return core.Value{}, err
	}
	if node.AlignAfter() {
		d.r.Align(4)
	}
	return v, nil
}

func (d *objectDecoder) decodeNodeBody(i int, node TypeTreeNode) (core.Value, error) {
	const op = "serialized.decodeNodeBody"

	if width, ok := primitiveWidths[node.TypeName]; ok {
		return d.decodePrimitive(node, width)
	}

	switch node.TypeName {
	case "string":
		s, err := d.r.ReadAlignedString()
		if err != nil {
			return core.Value{}, core.NewError(core.KindIO, op, err)
		}
		return core.String(s), nil
	case "Array", "TypelessData":
		return d.decodeArray(i, node)
	case "map":
		return d.decodeMap(i, node)
	}

	if strings.HasPrefix(node.TypeName, "PPtr<") {
		return d.decodePPtr(node)
	}

	children := d.tree.directChildren(i)
	if len(children) == 0 {
		if node.IsVariableSize() {
			return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
				fmt.Errorf("leaf node %q (%s) has variable size but no child describing it", node.FieldName, node.TypeName))
		}
		return d.decodeOpaque(node)
	}
	return d.decodeComposite(children)
}

// decodePrimitive reads width bytes and classifies them as int, float, or
// bool per spec §4.5 step 2.
func (d *objectDecoder) decodePrimitive(node TypeTreeNode, width int) (core.Value, error) {
	const op = "serialized.decodePrimitive"
	raw, err := d.r.ReadBytes(width)
	if err != nil {
		return core.Value{}, core.NewError(core.KindIO, op, err)
	}

	order := d.r.ByteOrder()
	switch {
	case floatPrimitives[node.TypeName]:
		if width == 4 {
			return core.Float(float64(math.Float32frombits(order.Uint32(raw)))), nil
		}
		return core.Float(math.Float64frombits(order.Uint64(raw))), nil
	case boolPrimitives[node.TypeName]:
		return core.Bool(raw[0] != 0), nil
	default:
		return core.Int(intFromBytes(raw, order, isUnsignedPrimitive(node.TypeName))), nil
	}
}

// intFromBytes decodes a 1/2/4/8-byte integer in order's byte order,
// sign-extending unless unsigned is set.
func intFromBytes(raw []byte, order interface {
	Uint16([]byte) uint16
	Uint32([]byte) uint32
	Uint64([]byte) uint64
}, unsigned bool) int64 {
	switch len(raw) {
	case 1:
		if unsigned {
			return int64(raw[0])
		}
		return int64(int8(raw[0]))
	case 2:
		v := order.Uint16(raw)
		if unsigned {
			return int64(v)
		}
		return int64(int16(v))
	case 4:
		v := order.Uint32(raw)
		if unsigned {
			return int64(v)
		}
		return int64(int32(v))
	case 8:
		v := order.Uint64(raw)
		if unsigned {
			return int64(v)
		}
		return int64(v)
	default:
		return 0
	}
}

func isUnsignedPrimitive(name string) bool {
	switch name {
	case "UInt8", "UInt16", "UInt32", "UInt64", "char":
		return true
	default:
		return false
	}
}

// decodeArray reads an Array/TypelessData node: child[0] names the element
// count (an int field called "size"), child[1] is the element template,
// repeated count times (spec §4.5 step 2).
func (d *objectDecoder) decodeArray(i int, node TypeTreeNode) (core.Value, error) {
	const op = "serialized.decodeArray"
	children := d.tree.directChildren(i)
	if len(children) < 2 {
		return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
			fmt.Errorf("%s node %q missing size/element children", node.TypeName, node.FieldName))
	}
	sizeIdx, elemIdx := children[0], children[1]

	sizeVal, err := d.decodeNode(sizeIdx)
	if err != nil {
		return core.Value{}, err
	}
	count, ok := sizeVal.AsInt()
	if !ok {
		return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
			fmt.Errorf("%s node %q size child did not decode to an int", node.TypeName, node.FieldName))
	}
	if count < 0 || count > (1<<24) {
		return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
			fmt.Errorf("implausible array size %d for %q", count, node.FieldName))
	}

	elems := make([]core.Value, 0, count)
	for n := int64(0); n < count; n++ {
		v, err := d.decodeNode(elemIdx)
		if err != nil {
			return core.Value{}, err
		}
		elems = append(elems, v)
	}
	return core.Array(elems), nil
}

// decodeMap reads a map node as a pair array (spec §4.5 step 2). Unity
// wraps map entries one extra Array level deep (an Array of "pair"
// composites whose children are first/second); when the map node has that
// single Array child it is decoded with decodeArray, giving an array of
// {first, second} objects. Otherwise the map node's own children are
// taken as the size and element template.
func (d *objectDecoder) decodeMap(i int, node TypeTreeNode) (core.Value, error) {
	children := d.tree.directChildren(i)
	if len(children) == 1 {
		// The common shape: a single child is itself the Array wrapper.
		return d.decodeArray(children[0], d.tree.Nodes[children[0]])
	}
	return d.decodeArray(i, node)
}

// decodePPtr reads a cross-reference node: (m_FileID int32, m_PathID
// int64|int32) producing {fileID, pathID} (spec §4.5 step 2). Whether
// m_PathID is 4 or 8 bytes isn't named in the type name; it's inferred
// from the composite node's own declared byte size (8 = legacy i32 path
// id, 12 = widened i64 path id).
func (d *objectDecoder) decodePPtr(node TypeTreeNode) (core.Value, error) {
	const op = "serialized.decodePPtr"
	fileID, err := d.r.ReadI32()
	if err != nil {
		return core.Value{}, core.NewError(core.KindIO, op, err)
	}

	var pathID int64
	if node.ByteSize == 8 {
		v, err := d.r.ReadI32()
		if err != nil {
			return core.Value{}, core.NewError(core.KindIO, op, err)
		}
		pathID = int64(v)
	} else {
		v, err := d.r.ReadI64()
		if err != nil {
			return core.Value{}, core.NewError(core.KindIO, op, err)
		}
		pathID = v
	}

	obj := core.NewObject()
	obj.Set("fileID", core.Int(int64(fileID)))
	obj.Set("pathID", core.Int(pathID))
	return core.Obj(obj), nil
}

// decodeComposite parses each child node in order into an insertion-ordered
// object (spec §4.5 step 2's "any other node with children").
func (d *objectDecoder) decodeComposite(children []int) (core.Value, error) {
	obj := core.NewObject()
	for _, ci := range children {
		v, err := d.decodeNode(ci)
		if err != nil {
			return core.Value{}, err
		}
		obj.Set(d.tree.Nodes[ci].FieldName, v)
	}
	return core.Obj(obj), nil
}

// decodeOpaque handles a childless, non-primitive, fixed-size leaf (a type
// name this decoder doesn't special-case, e.g. an unrecognized built-in
// struct) by reading its declared byte size as raw data, encoded as an
// array of byte-sized ints so no information is lost.
func (d *objectDecoder) decodeOpaque(node TypeTreeNode) (core.Value, error) {
	const op = "serialized.decodeOpaque"
	if node.ByteSize < 0 {
		return core.Value{}, core.NewError(core.KindSchemaMismatch, op,
			fmt.Errorf("opaque node %q has no declared size", node.FieldName))
	}
	raw, err := d.r.ReadBytes(int(node.ByteSize))
	if err != nil {
		return core.Value{}, core.NewError(core.KindIO, op, err)
	}
	vals := make([]core.Value, len(raw))
	for i, b := range raw {
		vals[i] = core.Int(int64(b))
	}
	return core.Array(vals), nil
}
