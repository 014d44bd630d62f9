// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package serialized implements Unity's SerializedFile format: the
// version-gated header and metadata tables (§4.4) and the type-tree-driven
// object body parser (§4.5). It generalizes the teacher's dotnet.go /
// dotnet_metadata_tables.go approach to version-dependent metadata table
// layouts — read count, then loop decoding version-conditional fields — to
// a single format whose record shapes change across ~20 version numbers
// instead of CLR metadata table kinds.
package serialized

import (
	"encoding/binary"
	"fmt"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/reader"
)

// Version thresholds gating SerializedFile header/metadata field presence
// (spec §4.4).
const (
	versionEndiannessInHeader = 9  // v>=9: endianness lives in the header
	versionWidenedHeader      = 22 // v>=22: file_size/data_offset widen to u64
	versionStrippedFlag       = 16 // v>=16: type entries carry is_stripped
	versionScriptTypeIndex    = 17 // v>=17: type entries carry script_type_index
	versionScriptID           = 13 // v>=13: type entries carry old_type_hash (MonoBehaviour also script_id)
	versionWidenedPathID      = 14 // v>=14: path_id widens to i64
	versionWidenedByteStart   = 22 // v>=22: byte_start widens to u64
	versionHasClassID16       = 17 // v<17: object entries carry class_id/is_destroyed
	versionHasScriptTable     = 11 // v>=11: script-type table present
	versionWidenedScriptIdx   = 14 // v>=14: script table entries widen
	versionRefPathHasEmpty    = 6  // v>=6: external-ref entries carry a leading empty string
	versionRefHasGUID         = 5  // v>=5: external-ref entries carry guid+type
)

// monoBehaviourClassID is the Unity class id whose type entries additionally
// carry a script id and hash (spec §4.4 step 4).
const monoBehaviourClassID = 114

// TypeEntry describes one type table record from a SerializedFile's
// metadata (spec §4.4 step 4).
type TypeEntry struct {
	TypeID          int32
	IsStripped      bool
	ScriptTypeIndex int16
	ScriptID        [16]byte
	OldTypeHash     [16]byte
	Tree            *TypeTree // nil when enable_type_tree is false
}

// ObjectEntry is one object-directory record (spec §4.4 step 5):
// location and type of a single object body within the data section.
type ObjectEntry struct {
	PathID      int64
	ByteStart   int64 // relative to DataOffset
	ByteSize    uint32
	TypeID      int32
	ClassID     int16 // only populated for v<17
	IsDestroyed int16 // only populated for v<17
}

// ScriptEntry is one script-type table record (spec §4.4 step 6).
type ScriptEntry struct {
	LocalSerializedFileIndex int32
	LocalIdentifier          int64
}

// ExternalReference is one external-reference table record (spec §4.4
// step 7): another SerializedFile or asset this file's PPtrs can point
// into.
type ExternalReference struct {
	GUID     [16]byte
	Type     int32
	PathName string
}

// File is a parsed SerializedFile: header, type table, object directory,
// script table, and external-reference table. Object bodies are read
// on demand via ObjectBody and DecodeObject (see object.go), not eagerly.
type File struct {
	MetadataSize  uint32
	FileSize      int64
	Version       uint32
	DataOffset    int64
	Endianness    binary.ByteOrder
	UnityVersion  string
	TargetPlatform int32
	EnableTypeTree bool

	Types              []TypeEntry
	Objects            []ObjectEntry
	Scripts            []ScriptEntry
	ExternalReferences []ExternalReference

	data []byte // the full SerializedFile stream; object bodies live at DataOffset+ByteStart
}

// ObjectBody returns the raw bytes of entry's body within f's data stream.
func (f *File) ObjectBody(entry ObjectEntry) ([]byte, error) {
	const op = "serialized.File.ObjectBody"
	start := f.DataOffset + entry.ByteStart
	end := start + int64(entry.ByteSize)
	if start < 0 || end > int64(len(f.data)) {
		return nil, core.NewError(core.KindCorruptStream, op,
			fmt.Errorf("object body [%d,%d) exceeds file (%d bytes)", start, end, len(f.data)))
	}
	return f.data[start:end], nil
}

// TypeEntryFor returns the type-table entry matching typeID, if any.
func (f *File) TypeEntryFor(typeID int32) (TypeEntry, bool) {
	for _, t := range f.Types {
		if t.TypeID == typeID {
			return t, true
		}
	}
	return TypeEntry{}, false
}

// Parse reads a SerializedFile from data. logger receives non-fatal
// warnings (e.g. a file with no embedded type tree); it may be nil.
func Parse(data []byte, logger *logx.Helper) (*File, error) {
	const op = "serialized.Parse"
	if logger == nil {
		logger = logx.Nop()
	}

	// Header fields before the version-gated endianness byte are read in a
	// fixed big-endian order regardless of the file's own declared order.
	r := reader.New(data, binary.BigEndian)

	f := &File{data: data}

	metadataSize, err := r.ReadU32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	f.MetadataSize = metadataSize

	fileSize, err := r.ReadU32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	f.FileSize = int64(fileSize)

	version, err := r.ReadU32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	f.Version = version

	dataOffset, err := r.ReadU32()
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	f.DataOffset = int64(dataOffset)

	if version >= versionEndiannessInHeader {
		endianByte, err := r.ReadU8()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		if _, err := r.ReadBytes(3); err != nil { // reserved
			return nil, core.NewError(core.KindIO, op, err)
		}
		f.Endianness = endiannessFromByte(endianByte)
	} else {
		// Legacy path (v<9): the metadata block sits at the end of the
		// file, and its first byte (metadata_size bytes before the end)
		// is read as the endianness flag; big-endian is assumed when
		// metadata_size does not fit the buffer.
		if f.MetadataSize > 0 && int(f.MetadataSize) <= len(data) {
			f.Endianness = endiannessFromByte(data[len(data)-int(f.MetadataSize)])
		} else {
			f.Endianness = binary.BigEndian
		}
	}
	r.SetByteOrder(f.Endianness)

	if version >= versionWidenedHeader {
		if _, err := r.ReadU32(); err != nil { // metadata_size reissued
			return nil, core.NewError(core.KindIO, op, err)
		}
		fileSize64, err := r.ReadU64()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		f.FileSize = int64(fileSize64)
		dataOffset64, err := r.ReadU64()
		if err != nil {
			return nil, core.NewError(core.KindIO, op, err)
		}
		f.DataOffset = int64(dataOffset64)
		if _, err := r.ReadU64(); err != nil { // unknown reserved
			return nil, core.NewError(core.KindIO, op, err)
		}
	}

	if f.UnityVersion, err = r.ReadCString(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if f.TargetPlatform, err = r.ReadI32(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if f.EnableTypeTree, err = r.ReadBool(); err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}

	if err := f.parseTypeTable(r); err != nil {
		return nil, err
	}
	if err := f.parseObjectDirectory(r); err != nil {
		return nil, err
	}
	if version >= versionHasScriptTable {
		if err := f.parseScriptTable(r); err != nil {
			return nil, err
		}
	}
	if err := f.parseExternalReferences(r); err != nil {
		return nil, err
	}

	if !f.EnableTypeTree {
		logger.Warnf("SerializedFile %q has no embedded type tree; only objects with a compiled-in minimal schema can be parsed", f.UnityVersion)
	}

	return f, nil
}

func endiannessFromByte(b uint8) binary.ByteOrder {
	if b == 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (f *File) parseTypeTable(r *reader.Reader) error {
	const op = "serialized.parseTypeTable"

	count, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	f.Types = make([]TypeEntry, count)
	for i := range f.Types {
		typeID, err := r.ReadI32()
		if err != nil {
			return core.NewError(core.KindIO, op, err)
		}
		entry := TypeEntry{TypeID: typeID}

		if f.Version >= versionStrippedFlag {
			if entry.IsStripped, err = r.ReadBool(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
		}
		if f.Version >= versionScriptTypeIndex {
			if entry.ScriptTypeIndex, err = r.ReadI16(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
		}
		if f.Version >= versionScriptID && typeID == monoBehaviourClassID {
			b, err := r.ReadBytes(16)
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			copy(entry.ScriptID[:], b)
		}
		if f.Version >= versionScriptID {
			b, err := r.ReadBytes(16)
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			copy(entry.OldTypeHash[:], b)
		}
		if f.EnableTypeTree {
			tree, err := parseTypeTree(r, f.Version)
			if err != nil {
				return err
			}
			entry.Tree = tree
		}
		f.Types[i] = entry
	}
	return nil
}

func (f *File) parseObjectDirectory(r *reader.Reader) error {
	const op = "serialized.parseObjectDirectory"

	count, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	f.Objects = make([]ObjectEntry, count)
	for i := range f.Objects {
		var entry ObjectEntry

		if f.Version < versionWidenedPathID {
			pathID, err := r.ReadI32()
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			entry.PathID = int64(pathID)
		} else {
			r.Align(4)
			pathID, err := r.ReadI64()
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			entry.PathID = pathID
		}

		if f.Version < versionWidenedByteStart {
			byteStart, err := r.ReadU32()
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			entry.ByteStart = int64(byteStart)
		} else {
			byteStart, err := r.ReadU64()
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			entry.ByteStart = int64(byteStart)
		}

		if entry.ByteSize, err = r.ReadU32(); err != nil {
			return core.NewError(core.KindIO, op, err)
		}
		if entry.TypeID, err = r.ReadI32(); err != nil {
			return core.NewError(core.KindIO, op, err)
		}
		if f.Version < versionHasClassID16 {
			if entry.ClassID, err = r.ReadI16(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			if entry.IsDestroyed, err = r.ReadI16(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
		}
		f.Objects[i] = entry
	}
	return nil
}

func (f *File) parseScriptTable(r *reader.Reader) error {
	const op = "serialized.parseScriptTable"

	count, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	f.Scripts = make([]ScriptEntry, count)
	for i := range f.Scripts {
		var entry ScriptEntry
		if f.Version < versionWidenedScriptIdx {
			idx, err := r.ReadU32()
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			entry.LocalSerializedFileIndex = int32(idx)
			r.Align(4)
			ident, err := r.ReadI32()
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			entry.LocalIdentifier = int64(ident)
		} else {
			if entry.LocalSerializedFileIndex, err = r.ReadI32(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			if entry.LocalIdentifier, err = r.ReadI64(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
		}
		f.Scripts[i] = entry
	}
	return nil
}

func (f *File) parseExternalReferences(r *reader.Reader) error {
	const op = "serialized.parseExternalReferences"

	count, err := r.ReadI32()
	if err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	f.ExternalReferences = make([]ExternalReference, count)
	for i := range f.ExternalReferences {
		var entry ExternalReference
		if f.Version >= versionRefPathHasEmpty {
			if _, err := r.ReadCString(); err != nil { // reserved empty string
				return core.NewError(core.KindIO, op, err)
			}
		}
		if f.Version >= versionRefHasGUID {
			b, err := r.ReadBytes(16)
			if err != nil {
				return core.NewError(core.KindIO, op, err)
			}
			copy(entry.GUID[:], b)
			if entry.Type, err = r.ReadI32(); err != nil {
				return core.NewError(core.KindIO, op, err)
			}
		}
		if entry.PathName, err = r.ReadCString(); err != nil {
			return core.NewError(core.KindIO, op, err)
		}
		f.ExternalReferences[i] = entry
	}
	return nil
}
